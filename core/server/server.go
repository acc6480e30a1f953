package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/queue"
	"meetsync/core/storage"
	"meetsync/modules/auth"
	"meetsync/modules/booking"
	"meetsync/modules/calendar"
	"meetsync/modules/invitation"
	"meetsync/modules/notification"
	"meetsync/modules/scheduling"
)

// Run boots the full service: config, infrastructure, module routes, the
// asynq worker, then blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisCache.Close()

	taskQueue := queue.NewQueue(cfg.Redis)
	defer taskQueue.Close()

	worker, mux := queue.NewWorker(cfg.Redis)

	uploader := storage.NewS3Uploader(cfg.S3)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth.Init(e, db, redisCache)
	calendar.Init(e, db, redisCache)
	scheduling.Init(e, db, redisCache)
	notification.Init(e, db, taskQueue, mux)
	invitation.Init(e, db, taskQueue)
	booking.Init(e, db, redisCache, taskQueue, uploader)

	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:Worker:Error", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server:Shutdown:Start")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server:Shutdown:Complete")
	return nil
}
