// Package app wires the consultation pipeline onto its infrastructure.
// The HTTP server and the CLI share it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiranshivaraju/yaktalk/internal/ai"
	"github.com/kiranshivaraju/yaktalk/internal/config"
	"github.com/kiranshivaraju/yaktalk/internal/consultation"
	"github.com/kiranshivaraju/yaktalk/internal/emergency"
	"github.com/kiranshivaraju/yaktalk/internal/intent"
	"github.com/kiranshivaraju/yaktalk/internal/rag"
	"github.com/kiranshivaraju/yaktalk/internal/store"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// Corpus is what the pipeline needs from storage.
type Corpus interface {
	rag.Retriever
	consultation.Recorder
	Ready(ctx context.Context) error
}

// Pipeline is the consultation stack built on a corpus and a model provider.
type Pipeline struct {
	Service  *consultation.Service
	Answerer *rag.Answerer
}

// NewPipeline assembles analyzer, evaluator, answerer and orchestrator.
func NewPipeline(cfg *config.Config, corpus Corpus, provider models.AIProvider) *Pipeline {
	analyzer := intent.NewAnalyzer(provider,
		intent.WithTimeout(cfg.AI.InferenceTimeout),
		intent.WithMemo(cfg.Intent.CacheTTL),
	)
	answerer := rag.NewAnswerer(corpus, provider,
		rag.WithTopK(cfg.RAG.TopK),
		rag.WithTimeout(cfg.AI.InferenceTimeout),
		rag.WithCache(rag.NewQueryCache(cfg.RAG.CacheCapacity)),
	)
	svc := consultation.NewService(analyzer, emergency.NewEvaluator(), answerer,
		consultation.WithRecorder(corpus),
		consultation.WithReadiness(corpus.Ready),
	)
	return &Pipeline{Service: svc, Answerer: answerer}
}

// App holds the long-lived resources behind a Pipeline.
type App struct {
	*Pipeline

	Config   *config.Config
	Store    *store.PostgresStore
	Provider models.AIProvider

	pool *pgxpool.Pool
}

// Option configures New.
type Option func(*options)

type options struct {
	migrationsDir string
}

// WithMigrations applies the migrations in dir before serving.
func WithMigrations(dir string) Option {
	return func(o *options) { o.migrationsDir = dir }
}

// New connects to Postgres, optionally migrates, creates the model provider
// and builds the pipeline. Call Close when done.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	slog.Info("database connected")

	if o.migrationsDir != "" {
		if err := store.RunMigrations(cfg.Database.URL, o.migrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")
	}

	provider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", provider.Name())

	pgStore := store.NewPostgresStore(pool)
	if n, err := pgStore.CountDocuments(ctx); err == nil {
		slog.Info("drug index loaded", "documents", n)
	}

	return &App{
		Pipeline: NewPipeline(cfg, pgStore, provider),
		Config:   cfg,
		Store:    pgStore,
		Provider: provider,
		pool:     pool,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.pool.Close()
}
