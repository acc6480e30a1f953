package middleware

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"
)

// Middleware bundles the cross-cutting Echo middlewares used by module routers
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware verifies the session JWT and stores the claims on the context
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing or malformed authorization header")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrTokenExpired, "invalid or expired token")
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token scope not permitted")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
