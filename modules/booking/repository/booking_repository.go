package repository

import (
	"context"
	"database/sql"
	"time"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/modules/booking/entity"
)

type BookingRepositoryInterface interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByReference(ctx context.Context, reference string) (*entity.Booking, error)
	ListByEmail(ctx context.Context, email string, params params.QueryParams) (*entity.PaginatedBookingEntity, error)
	UpdateStatus(ctx context.Context, reference string, status entity.BookingStatus) error
}

type BookingRepository struct {
	db database.Database
}

func NewBookingRepository(db database.Database) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (reference, organizer_email, participant_email, title, description,
		                      start_time, end_time, timezone, meet_link, calendar_event_id, ics_url,
		                      status, created_at, updated_at)
		VALUES (:reference, :organizer_email, :participant_email, :title, :description,
		        :start_time, :end_time, :timezone, :meet_link, :calendar_event_id, :ics_url,
		        :status, :created_at, :updated_at)
		RETURNING id
	`
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	rows, err := r.db.NamedQueryContext(ctx, query, booking)
	if err != nil {
		logger.Error("BookingRepository:Create:Error", "reference", booking.Reference, "error", err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&booking.ID)
	}
	return nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	query := `SELECT * FROM bookings WHERE reference = $1`

	var booking entity.Booking
	if err := r.db.GetContext(ctx, &booking, query, reference); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByReference:Error", "reference", reference, "error", err)
		return nil, err
	}
	return &booking, nil
}

// ListByEmail returns bookings where the email is either side of the meeting
func (r *BookingRepository) ListByEmail(ctx context.Context, email string, params params.QueryParams) (*entity.PaginatedBookingEntity, error) {
	baseQuery := `FROM bookings WHERE organizer_email = $1 OR participant_email = $1`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, email); err != nil {
		logger.Error("BookingRepository:ListByEmail:Count:Error", "error", err)
		return nil, err
	}

	query := `
		SELECT * ` + baseQuery + `
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	var bookings []entity.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, email, params.PageSize, params.Offset()); err != nil {
		logger.Error("BookingRepository:ListByEmail:Select:Error", "error", err)
		return nil, err
	}

	return &entity.PaginatedBookingEntity{
		Items:      bookings,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, reference string, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE reference = $3`
	if err := r.db.ExecContext(ctx, query, status, time.Now(), reference); err != nil {
		logger.Error("BookingRepository:UpdateStatus:Error", "reference", reference, "error", err)
		return err
	}
	return nil
}
