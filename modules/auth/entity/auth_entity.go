package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"meetsync/core/entity"
)

// User is a registered account. All lookups go through the email identifier.
type User struct {
	Email     string  `db:"email" json:"email"`
	Name      *string `db:"name" json:"name,omitempty"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url,omitempty"`
	IsActive  bool    `db:"is_active" json:"is_active"`
	entity.BaseEntity
}

// OAuthProvider is a configured identity/calendar provider (currently google)
type OAuthProvider struct {
	Name         string         `db:"name"`
	DisplayName  string         `db:"display_name"`
	ClientID     string         `db:"client_id"`
	ClientSecret string         `db:"client_secret"`
	RedirectURI  *string        `db:"redirect_uri"`
	Scopes       pq.StringArray `db:"scopes"`
	IsActive     bool           `db:"is_active"`
	entity.BaseEntity
}

// SocialLogin stores the per-user OAuth tokens used for calendar access
type SocialLogin struct {
	UserID         uuid.UUID  `db:"user_id"`
	ProviderID     uuid.UUID  `db:"provider_id"`
	ProviderUserID *string    `db:"provider_user_id"`
	ProviderEmail  *string    `db:"provider_email"`
	AccessToken    *string    `db:"access_token"`
	RefreshToken   *string    `db:"refresh_token"`
	TokenExpiresAt *time.Time `db:"token_expires_at"`
	LastLoginAt    *time.Time `db:"last_login_at"`
	IsActive       bool       `db:"is_active"`
	entity.BaseEntity
}
