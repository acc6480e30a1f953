package notification

import (
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/core/queue"
	"meetsync/modules/notification/controller"
	"meetsync/modules/notification/repository"
	"meetsync/modules/notification/router"
	"meetsync/modules/notification/service"
)

// Init wires the notification module. The worker mux is optional; when
// present the notification:create consumer is registered on it.
func Init(e *echo.Echo, db database.Database, q *queue.Queue, mux *asynq.ServeMux) {
	repo := repository.NewNotificationRepository(db)
	notificationService := service.NewNotificationService(repo, q)
	notificationController := controller.NewNotificationController(notificationService)
	mw := middleware.NewMiddleware()

	if mux != nil {
		mux.HandleFunc(constants.TaskNotificationCreate, notificationService.HandleCreateTask)
	}

	router.NewNotificationRouter(notificationController).Setup(e, mw)
}

// GetService creates and returns a NotificationService instance for use by other modules
func GetService(db database.Database, q *queue.Queue) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	return service.NewNotificationService(repo, q)
}
