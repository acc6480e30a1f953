package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/booking/controller"
)

// BookingRouter handles booking routes
type BookingRouter struct {
	BookingController *controller.BookingController
}

func NewBookingRouter(bookingController *controller.BookingController) *BookingRouter {
	return &BookingRouter{BookingController: bookingController}
}

// Setup registers booking routes
func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	bookingRoutes := e.Group("/api/v1/private/bookings", mw.AuthMiddleware())
	bookingRoutes.POST("", r.BookingController.Create)
	bookingRoutes.GET("", r.BookingController.List)
	bookingRoutes.DELETE("/:reference", r.BookingController.Cancel)
}
