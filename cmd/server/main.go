// Package main provides the entry point for the ClientFlow workspace server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"clientflow/internal/api"
	"clientflow/internal/api/middleware"
	"clientflow/internal/config"
	"clientflow/internal/repository/postgres"
	"clientflow/internal/services"
)

func main() {
	ctx := context.Background()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := postgres.New(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	workspaceStore := postgres.NewWorkspaceStore(db)
	auditStore := postgres.NewAuditStore(db)

	security := services.NewSecurityService(auditStore, services.SecurityServiceConfig{Logger: logger})
	security.StartSweeper(ctx, time.Hour)

	provider := services.NewHostedAuthProvider(&oauth2.Config{
		ClientID:     cfg.GetAuthClientID(),
		ClientSecret: cfg.GetAuthClientSecret(),
		Endpoint:     oauth2.Endpoint{TokenURL: cfg.GetAuthTokenURL()},
	}, cfg.GetAuthRefreshToken())

	validator := services.NewSessionValidator(provider, services.SessionValidatorConfig{
		Buffer:   cfg.GetSessionExpiryBuffer(),
		Logger:   logger,
		Security: security,
	})

	notifier := services.NewLogNotifier(logger)
	retry := services.NewRetryExecutor(notifier, logger)
	broadcaster := services.NewRefreshBroadcaster(logger, 16)

	cache := services.NewWorkspaceCache(workspaceStore, validator, retry, services.WorkspaceCacheConfig{
		Broadcaster: broadcaster,
		Logger:      logger,
	})
	// Warm the cache before serving; a failure here is recorded on the
	// cache and surfaced per-request, not fatal.
	cache.Fetch(ctx)

	rateLimiter, err := newRateLimiter(ctx, cfg)
	if err != nil {
		return err
	}

	workspaceHandler := api.NewWorkspaceHandler(cache, workspaceStore, security)
	realtimeHandler := api.NewRealtimeHandler(broadcaster, logger)
	healthHandler := api.NewHealthHandler(cache.FetchedAt)

	router := api.NewRouter(workspaceHandler, realtimeHandler, healthHandler, api.RouterConfig{
		Cache:       cache,
		Validator:   validator,
		Security:    security,
		Broadcaster: broadcaster,
		RateLimiter: rateLimiter,
		Logger:      logger,
		Environment: cfg.GetEnvironment(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.GetServerPort(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	go func() {
		logger.Info("starting server", "addr", server.Addr, "environment", cfg.GetEnvironment())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(cfg *config.AppConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.GetLogLevel() {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func newRateLimiter(ctx context.Context, cfg *config.AppConfig) (middleware.RateLimiterBackend, error) {
	limit := cfg.GetRequestsPerMinute()
	if limit <= 0 {
		return nil, nil
	}

	if cfg.UseRedisRateLimit() {
		client := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return middleware.NewRedisRateLimiter(client, "ratelimit:api", limit, time.Minute), nil
	}

	return middleware.NewMemoryRateLimiter(ctx, limit, time.Minute), nil
}
