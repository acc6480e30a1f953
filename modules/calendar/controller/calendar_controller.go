package controller

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"
	"meetsync/modules/calendar/service"
)

// CalendarController exposes calendar connection management
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

// GetConnections handles GET /calendar/connections
// @Summary List calendar connections
// @Description Returns the caller's linked calendar providers
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CalendarConnectionResponse
// @Failure 401 {object} errors.AppError
// @Router /private/calendar/connections [get]
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, err := c.CalendarService.GetConnections(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, result, "Connections listed")
}

// Disconnect handles DELETE /calendar/connections/:provider
// @Summary Disconnect a calendar provider
// @Description Clears stored tokens for the given provider
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param provider path string true "Provider name"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /private/calendar/connections/{provider} [delete]
func (c *CalendarController) Disconnect(ctx echo.Context) error {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	provider := ctx.Param("provider")
	if provider == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Provider is required")
	}

	if err := c.CalendarService.DisconnectCalendar(ctx.Request().Context(), claims.UserID, provider); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}
