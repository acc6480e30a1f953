package booking

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/cache"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/core/queue"
	"meetsync/core/storage"
	"meetsync/modules/auth"
	"meetsync/modules/booking/controller"
	"meetsync/modules/booking/repository"
	"meetsync/modules/booking/router"
	"meetsync/modules/booking/service"
	"meetsync/modules/calendar"
	"meetsync/modules/invitation"
	"meetsync/modules/notification"
)

func Init(e *echo.Echo, db database.Database, cache cache.Cache, q *queue.Queue, uploader storage.Uploader) {
	repo := repository.NewBookingRepository(db)
	bookingService := service.NewBookingService(
		repo,
		auth.GetService(db, cache),
		calendar.GetService(db, cache),
		uploader,
		invitation.GetService(db, q),
		notification.GetService(db, q),
	)
	bookingController := controller.NewBookingController(bookingService)
	mw := middleware.NewMiddleware()

	router.NewBookingRouter(bookingController).Setup(e, mw)
}
