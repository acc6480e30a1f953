package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/calendar/controller"
)

// CalendarRouter handles calendar routes
type CalendarRouter struct {
	CalendarController *controller.CalendarController
}

func NewCalendarRouter(calendarController *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{CalendarController: calendarController}
}

// Setup registers calendar routes
func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	privateRoutes := e.Group("/api/v1/private", mw.AuthMiddleware())
	privateRoutes.GET("/calendar/connections", r.CalendarController.GetConnections)
	privateRoutes.DELETE("/calendar/connections/:provider", r.CalendarController.Disconnect)
}
