package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/modules/invitation/dto"
	"meetsync/modules/invitation/entity"
	"meetsync/modules/invitation/repository"
	notifDto "meetsync/modules/notification/dto"
	notifService "meetsync/modules/notification/service"
)

type InvitationServiceInterface interface {
	CreateInvitation(ctx context.Context, req *dto.CreateInvitationRequest) error
	GetPendingInvitations(ctx context.Context, inviteeEmail string) (*dto.PendingInvitationsResponse, error)
	CountPending(ctx context.Context, inviteeEmail string) (int, error)
	AcceptInvitation(ctx context.Context, invitationID uuid.UUID, inviteeEmail string) (*entity.BookingInvitation, *errors.AppError)
	DeclineInvitation(ctx context.Context, invitationID uuid.UUID, inviteeEmail string) *errors.AppError
}

type InvitationService struct {
	repo         repository.InvitationRepositoryInterface
	notifService notifService.NotificationServiceInterface
}

func NewInvitationService(repo repository.InvitationRepositoryInterface, notif notifService.NotificationServiceInterface) *InvitationService {
	return &InvitationService{repo: repo, notifService: notif}
}

// CreateInvitation records a pending invitation and notifies the invitee.
// Notification failures are logged, never propagated.
func (s *InvitationService) CreateInvitation(ctx context.Context, req *dto.CreateInvitationRequest) error {
	invitation := &entity.BookingInvitation{
		BookingReference: req.BookingReference,
		OrganizerEmail:   req.OrganizerEmail,
		InviteeEmail:     req.InviteeEmail,
		Status:           entity.InvitationStatusPending,
		MeetingData: entity.MeetingData{
			Title:     req.Title,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Timezone:  req.Timezone,
			MeetLink:  req.MeetLink,
		},
	}

	if err := s.repo.Create(ctx, invitation); err != nil {
		logger.Error("InvitationService:CreateInvitation:Error", "reference", req.BookingReference, "error", err)
		return err
	}

	notification := &notifDto.CreateNotificationRequest{
		RecipientEmail: req.InviteeEmail,
		Title:          "New meeting invitation",
		Message:        fmt.Sprintf("%s invited you to: %s", req.OrganizerEmail, req.Title),
		Type:           "invitation",
		Data: map[string]any{
			"invitation_id":     invitation.ID.String(),
			"booking_reference": req.BookingReference,
		},
	}
	if err := s.notifService.Notify(ctx, notification); err != nil {
		logger.Error("InvitationService:CreateInvitation:Notify:Error", "error", err)
	}

	return nil
}

// GetPendingInvitations returns pending invitations addressed to an email
func (s *InvitationService) GetPendingInvitations(ctx context.Context, inviteeEmail string) (*dto.PendingInvitationsResponse, error) {
	invitations, err := s.repo.GetPendingByInviteeEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		dtos = append(dtos, dto.InvitationResponse{
			ID:               inv.ID,
			BookingReference: inv.BookingReference,
			OrganizerEmail:   inv.OrganizerEmail,
			Status:           string(inv.Status),
			MeetingData: dto.MeetingDataDTO{
				Title:     inv.MeetingData.Title,
				StartTime: inv.MeetingData.StartTime,
				EndTime:   inv.MeetingData.EndTime,
				Timezone:  inv.MeetingData.Timezone,
				MeetLink:  inv.MeetingData.MeetLink,
			},
			CreatedAt: inv.CreatedAt,
		})
	}

	return &dto.PendingInvitationsResponse{Invitations: dtos, Total: len(dtos)}, nil
}

func (s *InvitationService) CountPending(ctx context.Context, inviteeEmail string) (int, error) {
	return s.repo.CountPendingByInviteeEmail(ctx, inviteeEmail)
}

// AcceptInvitation marks the invitation accepted and notifies the organizer
func (s *InvitationService) AcceptInvitation(ctx context.Context, invitationID uuid.UUID, inviteeEmail string) (*entity.BookingInvitation, *errors.AppError) {
	invitation, appErr := s.loadPendingOwned(ctx, invitationID, inviteeEmail)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.repo.UpdateStatus(ctx, invitationID, entity.InvitationStatusAccepted); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to accept invitation", err)
	}
	invitation.Status = entity.InvitationStatusAccepted

	s.notifyOrganizer(ctx, invitation, "accepted")
	return invitation, nil
}

// DeclineInvitation marks the invitation declined and notifies the organizer
func (s *InvitationService) DeclineInvitation(ctx context.Context, invitationID uuid.UUID, inviteeEmail string) *errors.AppError {
	invitation, appErr := s.loadPendingOwned(ctx, invitationID, inviteeEmail)
	if appErr != nil {
		return appErr
	}

	if err := s.repo.UpdateStatus(ctx, invitationID, entity.InvitationStatusDeclined); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to decline invitation", err)
	}
	invitation.Status = entity.InvitationStatusDeclined

	s.notifyOrganizer(ctx, invitation, "declined")
	return nil
}

func (s *InvitationService) loadPendingOwned(ctx context.Context, invitationID uuid.UUID, inviteeEmail string) (*entity.BookingInvitation, *errors.AppError) {
	invitation, err := s.repo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load invitation", err)
	}
	if invitation == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invitation not found", nil)
	}
	if invitation.InviteeEmail != inviteeEmail {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not the invitee of this invitation", nil)
	}
	if invitation.Status != entity.InvitationStatusPending {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Invitation already responded", nil)
	}
	return invitation, nil
}

func (s *InvitationService) notifyOrganizer(ctx context.Context, invitation *entity.BookingInvitation, verb string) {
	notification := &notifDto.CreateNotificationRequest{
		RecipientEmail: invitation.OrganizerEmail,
		Title:          "Invitation " + verb,
		Message:        fmt.Sprintf("%s %s your meeting: %s", invitation.InviteeEmail, verb, invitation.MeetingData.Title),
		Type:           "invitation_response",
		Data: map[string]any{
			"invitation_id":     invitation.ID.String(),
			"booking_reference": invitation.BookingReference,
			"status":            string(invitation.Status),
		},
	}
	if err := s.notifService.Notify(ctx, notification); err != nil {
		logger.Error("InvitationService:notifyOrganizer:Error", "error", err)
	}
}
