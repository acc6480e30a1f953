package controller

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/params"
	"meetsync/core/utils"
	"meetsync/modules/booking/dto"
	"meetsync/modules/booking/service"
)

type BookingController struct {
	controller.BaseController
	BookingService service.BookingServiceInterface
}

func NewBookingController(svc service.BookingServiceInterface) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

func callerEmail(ctx echo.Context) (string, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.Email, true
}

// Create handles POST /bookings
// @Summary Book a meeting slot
// @Description Creates the calendar event with a Meet link, stores the booking and invites the participant
// @Tags Booking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking details"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/bookings [post]
func (c *BookingController) Create(ctx echo.Context) error {
	var req dto.CreateBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.BookingService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Booking created")
}

// List handles GET /bookings
// @Summary List bookings
// @Description Returns bookings where the caller is organizer or participant
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.PaginatedBookingEntity
// @Failure 401 {object} errors.AppError
// @Router /private/bookings [get]
func (c *BookingController) List(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	queryParams := params.NewQueryParams(ctx)
	result, err := c.BookingService.List(ctx.Request().Context(), email, queryParams)
	if err != nil {
		return c.InternalServerError(errors.ErrGetFailed, "Failed to list bookings")
	}
	return c.SuccessResponse(ctx, result, "Bookings retrieved")
}

// Cancel handles DELETE /bookings/:reference
// @Summary Cancel a booking
// @Description Deletes the calendar event and marks the booking cancelled
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param reference path string true "Booking reference"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/bookings/{reference} [delete]
func (c *BookingController) Cancel(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reference := ctx.Param("reference")
	if reference == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Booking reference is required")
	}

	if appErr := c.BookingService.Cancel(ctx.Request().Context(), reference, email); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Booking cancelled")
}
