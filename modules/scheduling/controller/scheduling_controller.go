package controller

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/modules/scheduling/dto"
	"meetsync/modules/scheduling/service"
)

// SchedulingController handles slot suggestion HTTP requests
type SchedulingController struct {
	controller.BaseController
	SchedulingService service.SchedulingServiceInterface
}

func NewSchedulingController(svc service.SchedulingServiceInterface) *SchedulingController {
	return &SchedulingController{
		BaseController:    controller.NewBaseController(),
		SchedulingService: svc,
	}
}

// Suggest handles POST /schedule/suggest
// @Summary Suggest meeting slots
// @Description Returns ranked candidate slots for a 1:1 meeting between two users
// @Tags Scheduling
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SuggestRequest true "Suggestion parameters"
// @Success 200 {object} dto.SuggestResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/schedule/suggest [post]
func (c *SchedulingController) Suggest(ctx echo.Context) error {
	var req dto.SuggestRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SchedulingService.Suggest(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Suggestions computed")
}
