package repository

import (
	"context"

	"github.com/google/uuid"

	"meetsync/core/database"
	"meetsync/modules/calendar/entity"
)

type CalendarRepositoryInterface interface {
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	DeactivateConnection(ctx context.Context, userID uuid.UUID, provider string) error
}

type CalendarRepository struct {
	db database.Database
}

func NewCalendarRepository(db database.Database) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// GetConnectionsByUserID lists a user's provider connections as a join over
// social_logins and oauth_providers.
func (r *CalendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `
		SELECT sl.id, sl.user_id, op.name AS provider, sl.provider_email,
		       sl.is_active, sl.last_login_at, sl.created_at
		FROM social_logins sl
		JOIN oauth_providers op ON op.id = sl.provider_id
		WHERE sl.user_id = $1
		ORDER BY sl.created_at DESC`

	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query, userID); err != nil {
		return nil, err
	}
	return connections, nil
}

// DeactivateConnection clears stored tokens and marks the connection inactive.
func (r *CalendarRepository) DeactivateConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `
		UPDATE social_logins sl
		SET access_token = NULL, refresh_token = NULL, token_expires_at = NULL,
		    is_active = false, updated_at = NOW()
		FROM oauth_providers op
		WHERE op.id = sl.provider_id AND sl.user_id = $1 AND op.name = $2`

	return r.db.ExecContext(ctx, query, userID, provider)
}
