package invitation

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/core/queue"
	"meetsync/modules/invitation/controller"
	"meetsync/modules/invitation/repository"
	"meetsync/modules/invitation/router"
	"meetsync/modules/invitation/service"
	"meetsync/modules/notification"
)

func Init(e *echo.Echo, db database.Database, q *queue.Queue) {
	repo := repository.NewInvitationRepository(db)
	invitationService := service.NewInvitationService(repo, notification.GetService(db, q))
	invitationController := controller.NewInvitationController(invitationService)
	mw := middleware.NewMiddleware()

	router.NewInvitationRouter(invitationController).Setup(e, mw)
}

// GetService creates and returns an InvitationService instance for use by other modules
func GetService(db database.Database, q *queue.Queue) service.InvitationServiceInterface {
	repo := repository.NewInvitationRepository(db)
	return service.NewInvitationService(repo, notification.GetService(db, q))
}
