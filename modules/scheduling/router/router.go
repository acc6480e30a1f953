package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/scheduling/controller"
)

// SchedulingRouter handles scheduling routes
type SchedulingRouter struct {
	SchedulingController *controller.SchedulingController
}

func NewSchedulingRouter(schedulingController *controller.SchedulingController) *SchedulingRouter {
	return &SchedulingRouter{
		SchedulingController: schedulingController,
	}
}

// Setup registers scheduling routes
func (r *SchedulingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	scheduleRoutes := privateRoutes.Group("/schedule", mw.AuthMiddleware())
	scheduleRoutes.POST("/suggest", r.SchedulingController.Suggest)
}
