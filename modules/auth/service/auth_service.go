package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/utils"
	"meetsync/modules/auth/dto"
	"meetsync/modules/auth/entity"
	"meetsync/modules/auth/repository"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthServiceInterface defines the auth service contract. ResolveCalendarToken
// is the credential resolver consumed by the scheduling and booking modules.
type AuthServiceInterface interface {
	GetGoogleAuthURL(ctx context.Context) (*dto.GoogleAuthURLResponse, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError)
	GetUserByIdentifier(ctx context.Context, identifier string) (*dto.UserResponse, *errors.AppError)
	ResolveCalendarToken(ctx context.Context, identifier string) (string, *errors.AppError)
}

// AuthService implements Google OAuth sign-in, session tokens and calendar
// credential resolution with transparent refresh.
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache) AuthServiceInterface {
	return &AuthService{repo: repo, cache: c}
}

// GetGoogleAuthURL generates the Google consent URL with a single-use state
// nonce stored in redis.
func (service *AuthService) GetGoogleAuthURL(ctx context.Context) (*dto.GoogleAuthURLResponse, *errors.AppError) {
	oauthConfig, appErr := service.oauthConfig()
	if appErr != nil {
		return nil, appErr
	}

	state := utils.GenerateID()
	if state == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate oauth state", nil)
	}

	key := constants.RedisKeyOAuthState + state
	if err := service.cache.Set(ctx, key, "pending", constants.OAuthStateTTL); err != nil {
		logger.Error("AuthService:GetGoogleAuthURL:SaveState:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save oauth state", err)
	}

	url := oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	return &dto.GoogleAuthURLResponse{URL: url}, nil
}

// HandleGoogleCallback exchanges the authorization code, upserts the user and
// their calendar tokens, and issues session JWTs.
func (service *AuthService) HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	key := constants.RedisKeyOAuthState + state
	if _, err := service.cache.Get(ctx, key); err != nil {
		logger.Warn("AuthService:HandleGoogleCallback:InvalidState", "state", state)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired oauth state", err)
	}
	_ = service.cache.Del(ctx, key)

	oauthConfig, appErr := service.oauthConfig()
	if appErr != nil {
		return nil, appErr
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	userInfo, err := service.getGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:UserInfo:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to fetch google user info", err)
	}

	user := &entity.User{Email: userInfo.Email}
	if userInfo.Name != "" {
		user.Name = &userInfo.Name
	}
	if userInfo.Picture != "" {
		user.AvatarURL = &userInfo.Picture
	}

	created, err := service.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to upsert user", err)
	}

	provider, err := service.repo.GetOAuthProviderByName(ctx, "google")
	if err != nil || provider == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "google provider not configured", err)
	}

	now := time.Now()
	socialLogin := &entity.SocialLogin{
		UserID:         created.ID,
		ProviderID:     provider.ID,
		ProviderUserID: &userInfo.ID,
		ProviderEmail:  &userInfo.Email,
		AccessToken:    &token.AccessToken,
		TokenExpiresAt: &token.Expiry,
		LastLoginAt:    &now,
		IsActive:       true,
	}
	if token.RefreshToken != "" {
		socialLogin.RefreshToken = &token.RefreshToken
	}

	if err := service.repo.SaveOrUpdateSocialLogin(ctx, socialLogin); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store calendar tokens", err)
	}

	accessToken, err := utils.GenerateToken(created.ID, created.Email, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}
	refreshToken, err := utils.GenerateToken(created.ID, created.Email, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:        created.ID.String(),
			Email:     created.Email,
			Name:      created.Name,
			AvatarURL: created.AvatarURL,
		},
	}, nil
}

func (service *AuthService) GetUserByIdentifier(ctx context.Context, identifier string) (*dto.UserResponse, *errors.AppError) {
	user, err := service.repo.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return &dto.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}, nil
}

// ResolveCalendarToken returns a valid Google Calendar access token for the
// given user identifier, refreshing it transparently when expired. Returns
// ErrUnauthorized when the user has no stored credential; callers that can
// degrade (suggest) treat that as "no live data" rather than a failure.
func (service *AuthService) ResolveCalendarToken(ctx context.Context, identifier string) (string, *errors.AppError) {
	user, err := service.repo.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}
	if user == nil {
		return "", errors.NewAppError(errors.ErrUnauthorized, fmt.Sprintf("no account for %s", identifier), nil)
	}

	provider, err := service.repo.GetOAuthProviderByName(ctx, "google")
	if err != nil || provider == nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "google provider not configured", err)
	}

	socialLogin, err := service.repo.GetSocialLoginByUserIDAndProvider(ctx, user.ID, provider.ID)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar credential", err)
	}
	if socialLogin == nil || socialLogin.AccessToken == nil {
		return "", errors.NewAppError(errors.ErrUnauthorized, fmt.Sprintf("no calendar credential for %s", identifier), nil)
	}

	// Refresh slightly ahead of expiry so callers never hold a token that
	// dies mid-request.
	if socialLogin.TokenExpiresAt != nil && time.Now().After(socialLogin.TokenExpiresAt.Add(-5*time.Minute)) {
		if socialLogin.RefreshToken == nil {
			return "", errors.NewAppError(errors.ErrUnauthorized, "calendar token expired and no refresh token available", nil)
		}
		return service.refreshAndStore(ctx, socialLogin)
	}

	return *socialLogin.AccessToken, nil
}

func (service *AuthService) refreshAndStore(ctx context.Context, socialLogin *entity.SocialLogin) (string, *errors.AppError) {
	oauthConfig, appErr := service.oauthConfig()
	if appErr != nil {
		return "", appErr
	}

	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: *socialLogin.RefreshToken,
	})

	newToken, err := tokenSource.Token()
	if err != nil {
		logger.Error("AuthService:refreshAndStore:Token:Error", "error", err, "user_id", socialLogin.UserID)
		return "", errors.NewAppError(errors.ErrUnauthorized, "failed to refresh calendar token", err)
	}

	socialLogin.AccessToken = &newToken.AccessToken
	if newToken.RefreshToken != "" {
		socialLogin.RefreshToken = &newToken.RefreshToken
	}
	socialLogin.TokenExpiresAt = &newToken.Expiry

	if err := service.repo.SaveOrUpdateSocialLogin(ctx, socialLogin); err != nil {
		logger.Error("AuthService:refreshAndStore:Save:Error", "error", err, "user_id", socialLogin.UserID)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to persist refreshed token", err)
	}

	return newToken.AccessToken, nil
}

func (service *AuthService) oauthConfig() (*oauth2.Config, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}

	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/calendar",
		},
	}, nil
}

func (service *AuthService) getGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google userinfo error: %d %s", resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
