package controller

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/params"
	"meetsync/core/utils"
	"meetsync/modules/notification/dto"
	"meetsync/modules/notification/service"
)

type NotificationController struct {
	controller.BaseController
	NotificationService service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

func callerEmail(ctx echo.Context) (string, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.Email, true
}

// GetMyNotifications handles GET /notifications
// @Summary List notifications
// @Description Returns the caller's notifications, newest first
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.PaginatedNotificationEntity
// @Failure 401 {object} errors.AppError
// @Router /private/notifications [get]
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	queryParams := params.NewQueryParams(ctx)
	result, err := c.NotificationService.GetMyNotifications(ctx.Request().Context(), email, queryParams)
	if err != nil {
		return c.InternalServerError(errors.ErrGetFailed, "Failed to get notifications")
	}
	return c.SuccessResponse(ctx, result, "Notifications retrieved")
}

// MarkAsRead handles PUT /notifications/mark-read
// @Summary Mark notifications read
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkAsReadRequest true "Notification IDs"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /private/notifications/mark-read [put]
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.MarkAsReadRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if err := c.NotificationService.MarkAsRead(ctx.Request().Context(), email, req.IDs); err != nil {
		return c.InternalServerError(errors.ErrUpdateFailed, "Failed to mark as read")
	}
	return c.SuccessResponse(ctx, nil, "Marked as read")
}

// MarkAllAsRead handles PUT /notifications/mark-all-read
// @Summary Mark all notifications read
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /private/notifications/mark-all-read [put]
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if err := c.NotificationService.MarkAllAsRead(ctx.Request().Context(), email); err != nil {
		return c.InternalServerError(errors.ErrUpdateFailed, "Failed to mark all as read")
	}
	return c.SuccessResponse(ctx, nil, "Marked all as read")
}

// CountUnread handles GET /notifications/unread-count
// @Summary Count unread notifications
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UnreadCountResponse
// @Failure 401 {object} errors.AppError
// @Router /private/notifications/unread-count [get]
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	count, err := c.NotificationService.CountUnread(ctx.Request().Context(), email)
	if err != nil {
		return c.InternalServerError(errors.ErrGetFailed, "Failed to count unread notifications")
	}
	return c.SuccessResponse(ctx, dto.UnreadCountResponse{Count: count}, "Unread count retrieved")
}
