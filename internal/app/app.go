package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tkovalenko/sentencely-backend/internal/adapter/postgres"
	"github.com/tkovalenko/sentencely-backend/internal/adapter/postgres/card"
	"github.com/tkovalenko/sentencely-backend/internal/adapter/postgres/prefs"
	"github.com/tkovalenko/sentencely-backend/internal/adapter/postgres/reviewevent"
	"github.com/tkovalenko/sentencely-backend/internal/auth"
	"github.com/tkovalenko/sentencely-backend/internal/config"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler"
	"github.com/tkovalenko/sentencely-backend/internal/transport/middleware"
	"github.com/tkovalenko/sentencely-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, applies migrations, wires repositories and services, and
// serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := runMigrations(ctx, cfg.Database.DSN, logger); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	cardRepo := card.New(pool)
	eventRepo := reviewevent.New(pool)
	prefsRepo := prefs.New(pool)
	txManager := postgres.NewTxManager(pool)

	schedulerSvc, err := scheduler.NewService(
		logger, cardRepo, eventRepo, prefsRepo, txManager,
		cfg.Scheduler.ToDomain(), cfg.Scheduler.Weights,
	)
	if err != nil {
		return fmt.Errorf("create scheduler service: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.ClockSkew)

	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	studyHandler := rest.NewStudyHandler(schedulerSvc, logger)

	var rateLimitMW middleware.Middleware
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		rateLimitMW = limiter.Limit(cfg.Server.RateLimitPerMinute)
	}

	handler := buildRouter(
		healthHandler,
		studyHandler,
		middleware.Auth(jwtManager),
		cfg.CORS,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		rateLimitMW,
	)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
