package calendar

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/cache"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/calendar/controller"
	"meetsync/modules/calendar/repository"
	"meetsync/modules/calendar/router"
	"meetsync/modules/calendar/service"
)

func Init(e *echo.Echo, db database.Database, cache cache.Cache) {
	repo := repository.NewCalendarRepository(db)
	calendarService := service.NewCalendarService(repo, cache)
	calendarController := controller.NewCalendarController(calendarService)
	mw := middleware.NewMiddleware()

	router.NewCalendarRouter(calendarController).Setup(e, mw)
}

// GetService creates and returns a CalendarService instance for use by other modules
func GetService(db database.Database, cache cache.Cache) service.CalendarServiceInterface {
	repo := repository.NewCalendarRepository(db)
	return service.NewCalendarService(repo, cache)
}
