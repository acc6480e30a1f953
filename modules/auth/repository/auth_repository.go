package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/auth/entity"
)

// AuthRepositoryInterface defines the auth persistence contract
type AuthRepositoryInterface interface {
	GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)

	GetOAuthProviderByName(ctx context.Context, name string) (*entity.OAuthProvider, error)
	SeedGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURI string) error

	GetSocialLoginByUserIDAndProvider(ctx context.Context, userID uuid.UUID, providerID uuid.UUID) (*entity.SocialLogin, error)
	SaveOrUpdateSocialLogin(ctx context.Context, socialLogin *entity.SocialLogin) error
}

// AuthRepository handles auth related database operations
type AuthRepository struct {
	DB database.Database
}

func NewAuthRepository(db database.Database) *AuthRepository {
	return &AuthRepository{DB: db}
}

func (r *AuthRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var user entity.User
	query := `SELECT * FROM users WHERE email = $1 AND is_active = true`
	err := r.DB.GetContext(ctx, &user, query, identifier)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByIdentifier:Error", "error", err, "identifier", identifier)
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, name, avatar_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, true, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, users.name),
			avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query, user.Email, user.Name, user.AvatarURL).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Error("AuthRepository:CreateUser:Error", "error", err, "email", user.Email)
		return nil, err
	}
	user.IsActive = true
	return user, nil
}

func (r *AuthRepository) GetOAuthProviderByName(ctx context.Context, name string) (*entity.OAuthProvider, error) {
	var provider entity.OAuthProvider
	query := `SELECT * FROM oauth_providers WHERE name = $1 AND is_active = true`
	err := r.DB.GetContext(ctx, &provider, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetOAuthProviderByName:Error", "error", err, "name", name)
		return nil, err
	}
	return &provider, nil
}

func (r *AuthRepository) SeedGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURI string) error {
	query := `
		INSERT INTO oauth_providers (name, display_name, client_id, client_secret, redirect_uri, scopes, is_active, created_at, updated_at)
		VALUES (
			'google',
			'Google',
			$1,
			$2,
			$3,
			ARRAY[
				'https://www.googleapis.com/auth/userinfo.email',
				'https://www.googleapis.com/auth/userinfo.profile',
				'https://www.googleapis.com/auth/calendar'
			],
			true,
			NOW(),
			NOW()
		)
		ON CONFLICT (name) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			client_secret = EXCLUDED.client_secret,
			redirect_uri = EXCLUDED.redirect_uri,
			updated_at = NOW()
	`
	if err := r.DB.ExecContext(ctx, query, clientID, clientSecret, redirectURI); err != nil {
		logger.Error("AuthRepository:SeedGoogleProvider:Error", "error", err)
		return err
	}
	logger.Info("AuthRepository:SeedGoogleProvider:Success", "provider", "google")
	return nil
}

func (r *AuthRepository) GetSocialLoginByUserIDAndProvider(ctx context.Context, userID uuid.UUID, providerID uuid.UUID) (*entity.SocialLogin, error) {
	var socialLogin entity.SocialLogin
	query := `
		SELECT * FROM social_logins
		WHERE user_id = $1 AND provider_id = $2 AND is_active = true
	`
	err := r.DB.GetContext(ctx, &socialLogin, query, userID, providerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetSocialLoginByUserIDAndProvider:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return &socialLogin, nil
}

func (r *AuthRepository) SaveOrUpdateSocialLogin(ctx context.Context, socialLogin *entity.SocialLogin) error {
	query := `
		INSERT INTO social_logins (
			user_id, provider_id, provider_user_id, provider_email,
			access_token, refresh_token, token_expires_at,
			last_login_at, is_active, created_at, updated_at
		)
		VALUES (
			:user_id, :provider_id, :provider_user_id, :provider_email,
			:access_token, :refresh_token, :token_expires_at,
			:last_login_at, :is_active, NOW(), NOW()
		)
		ON CONFLICT (user_id, provider_id)
		DO UPDATE SET
			provider_user_id = EXCLUDED.provider_user_id,
			provider_email = EXCLUDED.provider_email,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			last_login_at = EXCLUDED.last_login_at,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`
	if _, err := r.DB.NamedExecContext(ctx, query, socialLogin); err != nil {
		logger.Error("AuthRepository:SaveOrUpdateSocialLogin:Error", "error", err)
		return err
	}
	return nil
}
