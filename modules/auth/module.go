package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/middleware"
	"meetsync/modules/auth/controller"
	"meetsync/modules/auth/repository"
	"meetsync/modules/auth/router"
	"meetsync/modules/auth/service"
)

func Init(e *echo.Echo, db database.Database, cache cache.Cache) {
	repo := repository.NewAuthRepository(db)
	authService := service.NewAuthService(repo, cache)
	authController := controller.NewAuthController(authService)
	mw := middleware.NewMiddleware()

	seedGoogleProvider(repo)

	router.NewAuthRouter(authController).Setup(e, mw)
}

func seedGoogleProvider(repo repository.AuthRepositoryInterface) {
	cfg, ok := config.GetSafe()
	if !ok {
		logger.Warn("Auth:SeedGoogleProvider:ConfigNotInitialized")
		return
	}

	if cfg.GoogleAPI.ClientID == "" || cfg.GoogleAPI.ClientSecret == "" || cfg.GoogleAPI.RedirectURI == "" {
		logger.Info("Auth:SeedGoogleProvider:Skipped", "reason", "Google OAuth credentials not configured in env")
		return
	}

	ctx := context.Background()
	if err := repo.SeedGoogleProvider(ctx, cfg.GoogleAPI.ClientID, cfg.GoogleAPI.ClientSecret, cfg.GoogleAPI.RedirectURI); err != nil {
		logger.Error("Auth:SeedGoogleProvider:Error", "error", err)
	}
}

// GetService creates and returns an AuthService instance for use by other modules
func GetService(db database.Database, cache cache.Cache) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	return service.NewAuthService(repo, cache)
}
