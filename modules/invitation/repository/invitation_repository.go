package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/invitation/entity"
)

type InvitationRepositoryInterface interface {
	Create(ctx context.Context, invitation *entity.BookingInvitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BookingInvitation, error)
	GetPendingByInviteeEmail(ctx context.Context, email string) ([]entity.BookingInvitation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.InvitationStatus) error
	CountPendingByInviteeEmail(ctx context.Context, email string) (int, error)
}

type InvitationRepository struct {
	db database.Database
}

func NewInvitationRepository(db database.Database) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *entity.BookingInvitation) error {
	query := `
		INSERT INTO booking_invitations (booking_reference, organizer_email, invitee_email, status, meeting_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now()
	invitation.CreatedAt = now
	invitation.UpdatedAt = now
	if invitation.Status == "" {
		invitation.Status = entity.InvitationStatusPending
	}

	meetingDataValue, err := invitation.MeetingData.Value()
	if err != nil {
		logger.Error("InvitationRepository:Create:MeetingDataValue:Error", "error", err)
		return err
	}

	row := r.db.QueryRowContext(ctx, query,
		invitation.BookingReference,
		invitation.OrganizerEmail,
		invitation.InviteeEmail,
		invitation.Status,
		meetingDataValue,
		invitation.CreatedAt,
		invitation.UpdatedAt,
	)
	return row.Scan(&invitation.ID)
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BookingInvitation, error) {
	query := `
		SELECT id, booking_reference, organizer_email, invitee_email, status, meeting_data, responded_at, created_at, updated_at
		FROM booking_invitations
		WHERE id = $1
	`
	var inv entity.BookingInvitation
	if err := r.db.GetContext(ctx, &inv, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InvitationRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepository) GetPendingByInviteeEmail(ctx context.Context, email string) ([]entity.BookingInvitation, error) {
	query := `
		SELECT id, booking_reference, organizer_email, invitee_email, status, meeting_data, responded_at, created_at, updated_at
		FROM booking_invitations
		WHERE invitee_email = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	var invitations []entity.BookingInvitation
	if err := r.db.SelectContext(ctx, &invitations, query, email); err != nil {
		logger.Error("InvitationRepository:GetPendingByInviteeEmail:Error", "error", err)
		return nil, err
	}
	return invitations, nil
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.InvitationStatus) error {
	query := `
		UPDATE booking_invitations
		SET status = $1, responded_at = $2, updated_at = $3
		WHERE id = $4
	`
	now := time.Now()
	if err := r.db.ExecContext(ctx, query, status, now, now, id); err != nil {
		logger.Error("InvitationRepository:UpdateStatus:Error", "error", err)
		return err
	}
	return nil
}

func (r *InvitationRepository) CountPendingByInviteeEmail(ctx context.Context, email string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM booking_invitations WHERE invitee_email = $1 AND status = 'pending'`
	if err := r.db.GetContext(ctx, &count, query, email); err != nil {
		logger.Error("InvitationRepository:CountPendingByInviteeEmail:Error", "error", err)
		return 0, err
	}
	return count, nil
}
