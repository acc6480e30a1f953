package controller

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"
	"meetsync/modules/auth/service"
)

// AuthController handles authentication HTTP requests
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// GoogleLogin handles GET /auth/google
// @Summary Start Google sign-in
// @Description Returns the Google OAuth consent URL
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.GoogleAuthURLResponse
// @Router /public/auth/google [get]
func (c *AuthController) GoogleLogin(ctx echo.Context) error {
	result, appErr := c.AuthService.GetGoogleAuthURL(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Google auth URL generated")
}

// GoogleCallback handles GET /auth/google/callback
// @Summary Google OAuth callback
// @Description Exchanges the authorization code and returns session tokens
// @Tags Auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return c.BadRequest(errors.ErrInvalidInput, "code and state are required")
	}

	result, appErr := c.AuthService.HandleGoogleCallback(ctx.Request().Context(), code, state)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Login successful")
}

// Me handles GET /auth/me
// @Summary Current user profile
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} errors.AppError
// @Router /private/auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	tokenData := ctx.Get(constants.ContextTokenData)
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok || claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AuthService.GetUserByIdentifier(ctx.Request().Context(), claims.Email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
