package entity

import (
	"time"

	"github.com/google/uuid"
)

// BusyPeriod is a half-open busy interval on a user's calendar.
type BusyPeriod struct {
	Start time.Time
	End   time.Time
}

// CalendarConnection is a read model over social_logins joined with
// oauth_providers. Rows are owned by the auth module; the calendar module
// only lists and deactivates them.
type CalendarConnection struct {
	ID            uuid.UUID  `db:"id"`
	UserID        uuid.UUID  `db:"user_id"`
	Provider      string     `db:"provider"`
	ProviderEmail *string    `db:"provider_email"`
	IsActive      bool       `db:"is_active"`
	LastLoginAt   *time.Time `db:"last_login_at"`
	CreatedAt     time.Time  `db:"created_at"`
}
