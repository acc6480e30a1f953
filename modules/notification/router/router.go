package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/notification/controller"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{NotificationController: notificationController}
}

// Setup registers notification routes
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	notifRoutes := e.Group("/api/v1/private/notifications", mw.AuthMiddleware())
	notifRoutes.GET("", r.NotificationController.GetMyNotifications)
	notifRoutes.GET("/unread-count", r.NotificationController.CountUnread)
	notifRoutes.PUT("/mark-read", r.NotificationController.MarkAsRead)
	notifRoutes.PUT("/mark-all-read", r.NotificationController.MarkAllAsRead)
}
