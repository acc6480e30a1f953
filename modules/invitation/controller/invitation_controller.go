package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"
	"meetsync/modules/invitation/service"
)

type InvitationController struct {
	controller.BaseController
	InvitationService service.InvitationServiceInterface
}

func NewInvitationController(svc service.InvitationServiceInterface) *InvitationController {
	return &InvitationController{
		BaseController:    controller.NewBaseController(),
		InvitationService: svc,
	}
}

func callerEmail(ctx echo.Context) (string, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.Email, true
}

// GetPending handles GET /invitations/pending
// @Summary List pending invitations
// @Tags Invitation
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PendingInvitationsResponse
// @Failure 401 {object} errors.AppError
// @Router /private/invitations/pending [get]
func (c *InvitationController) GetPending(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, err := c.InvitationService.GetPendingInvitations(ctx.Request().Context(), email)
	if err != nil {
		return c.InternalServerError(errors.ErrGetFailed, "Failed to get invitations")
	}
	return c.SuccessResponse(ctx, result, "Pending invitations retrieved")
}

// Accept handles PUT /invitations/:id/accept
// @Summary Accept an invitation
// @Tags Invitation
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invitation ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/invitations/{id}/accept [put]
func (c *InvitationController) Accept(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid invitation id")
	}

	invitation, appErr := c.InvitationService.AcceptInvitation(ctx.Request().Context(), id, email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, invitation, "Invitation accepted")
}

// Decline handles PUT /invitations/:id/decline
// @Summary Decline an invitation
// @Tags Invitation
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invitation ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/invitations/{id}/decline [put]
func (c *InvitationController) Decline(ctx echo.Context) error {
	email, ok := callerEmail(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid invitation id")
	}

	if appErr := c.InvitationService.DeclineInvitation(ctx.Request().Context(), id, email); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Invitation declined")
}
