// Package main is the entrypoint for the YakTalk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/yaktalk/internal/api"
	"github.com/kiranshivaraju/yaktalk/internal/api/handler"
	mw "github.com/kiranshivaraju/yaktalk/internal/api/middleware"
	"github.com/kiranshivaraju/yaktalk/internal/app"
	"github.com/kiranshivaraju/yaktalk/internal/cache"
	"github.com/kiranshivaraju/yaktalk/internal/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, failing fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database, migrations, AI provider and pipeline
	a, err := app.New(ctx, cfg, app.WithMigrations("migrations"))
	if err != nil {
		return err
	}
	defer a.Close()

	// 3. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 4. Build router with dependencies
	auth := mw.NewAuth(cfg.Auth.APIKeyHash)
	if !auth.Enabled() {
		slog.Warn("YAKTALK_API_KEY_HASH not set, API authentication disabled")
	}

	router := api.NewRouter(newDependencies(a, redisCache, auth, cfg.RateLimit.PerMinute))

	// 5. Start HTTP server
	srv := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	stats := a.Answerer.Stats()
	slog.Info("server stopped gracefully",
		"total_queries", stats.TotalQueries,
		"cache_hit_rate", fmt.Sprintf("%.1f%%", stats.HitRate),
	)
	return nil
}

// newHTTPServer sizes the write timeout so a chat request can spend the full
// inference budget on both classification and generation.
func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.InferenceTimeout*2 + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// newDependencies binds the HTTP handlers to the pipeline.
func newDependencies(a *app.App, c cache.Cache, auth *mw.Auth, perMinute int) api.Dependencies {
	return api.Dependencies{
		Auth:      auth,
		RateLimit: mw.NewRateLimit(c, perMinute),

		HealthHandler:     handler.NewHealthHandler(a.Store, c, a.Service),
		ChatHandler:       handler.NewChatHandler(a.Service),
		SearchHandler:     handler.NewSearchHandler(a.Service),
		CacheStatsHandler: handler.NewCacheStatsHandler(a.Answerer),
		CacheClearHandler: handler.NewCacheClearHandler(a.Answerer),
		ListConsultations: handler.NewListConsultationsHandler(a.Store),
		GetConsultation:   handler.NewGetConsultationHandler(a.Store),
	}
}
