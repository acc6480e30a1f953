package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Timeouts
const (
	DefaultTimeout = 15 * time.Second
)

// Database defaults
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes
const (
	RedisKeyOAuthState = "oauth_state:"
	RedisKeyTimezone   = "tz:"
	TimezoneCacheTTL   = 6 * time.Hour
	OAuthStateTTL      = 10 * time.Minute
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Asynq task types
const (
	TaskNotificationCreate = "notification:create"
)
