package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/invitation/controller"
)

// InvitationRouter handles invitation routes
type InvitationRouter struct {
	InvitationController *controller.InvitationController
}

func NewInvitationRouter(invitationController *controller.InvitationController) *InvitationRouter {
	return &InvitationRouter{InvitationController: invitationController}
}

// Setup registers invitation routes
func (r *InvitationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	invRoutes := e.Group("/api/v1/private/invitations", mw.AuthMiddleware())
	invRoutes.GET("/pending", r.InvitationController.GetPending)
	invRoutes.PUT("/:id/accept", r.InvitationController.Accept)
	invRoutes.PUT("/:id/decline", r.InvitationController.Decline)
}
