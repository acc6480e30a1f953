package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/auth/controller"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public")
	publicRoutes.GET("/auth/google", r.AuthController.GoogleLogin)
	publicRoutes.GET("/auth/google/callback", r.AuthController.GoogleCallback)

	privateRoutes := v1.Group("/private")
	privateRoutes.GET("/auth/me", r.AuthController.Me, mw.AuthMiddleware())
}
