package main

import (
	"SocialSphere/internal/config"
	"SocialSphere/internal/handlers"
	"SocialSphere/internal/middleware"
	"SocialSphere/internal/repo"
	"SocialSphere/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		sugar.Fatalw("failed to create media dir", "dir", cfg.MediaDir, "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB))
	tokenService := service.NewTokenService(repo.NewRefreshTokenRepository(gormDB), cfg.AuthSecret, cfg.AccessTTL, cfg.RefreshTTL, sugar)
	postService := service.NewPostService(repo.NewPostRepository(gormDB), repo.NewCommentRepository(gormDB), sugar)

	h := handlers.NewHandler(userService, tokenService, postService, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server", "addr", cfg.ServerAddr)
	sugar.Infow("Config",
		"ServerAddr", cfg.ServerAddr,
		"MediaDir", cfg.MediaDir,
		"AccessTTL", cfg.AccessTTL,
		"RefreshTTL", cfg.RefreshTTL,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down server")
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Graceful shutdown failed", "error", err)
		}
	}
}
