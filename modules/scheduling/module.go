package scheduling

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/auth"
	"meetsync/modules/calendar"
	calendarService "meetsync/modules/calendar/service"
	"meetsync/modules/scheduling/controller"
	"meetsync/modules/scheduling/router"
	"meetsync/modules/scheduling/service"
)

func Init(e *echo.Echo, db database.Database, cache cache.Cache) {
	cfg := config.Get()

	resolver := auth.GetService(db, cache)
	gateway := &calendarGateway{svc: calendar.GetService(db, cache)}

	schedulingService := service.NewSchedulingService(resolver, gateway, cfg.Scheduling)
	schedulingController := controller.NewSchedulingController(schedulingService)
	mw := middleware.NewMiddleware()

	router.NewSchedulingRouter(schedulingController).Setup(e, mw)
}

// calendarGateway adapts the calendar module's service to the engine-facing
// busy interval type.
type calendarGateway struct {
	svc calendarService.CalendarServiceInterface
}

func (g *calendarGateway) ResolveTimezoneOrDefault(ctx context.Context, accessToken string, identifier string) string {
	return g.svc.ResolveTimezoneOrDefault(ctx, accessToken, identifier)
}

func (g *calendarGateway) GetBusyIntervals(ctx context.Context, accessToken string, identifier string, start, end time.Time) ([]service.BusyInterval, error) {
	periods, err := g.svc.GetBusyIntervals(ctx, accessToken, identifier, start, end)
	if err != nil {
		return nil, err
	}

	intervals := make([]service.BusyInterval, 0, len(periods))
	for _, p := range periods {
		intervals = append(intervals, service.BusyInterval{Start: p.Start, End: p.End})
	}
	return intervals, nil
}
