// Package rag answers drug questions from retrieved passages and memoizes the
// answers per normalized question.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/yaktalk/internal/cache"
	"github.com/kiranshivaraju/yaktalk/internal/metrics"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 4

// ApologyAnswer replaces the answer text when generation fails.
const ApologyAnswer = "죄송합니다. 답변을 생성하는 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

// ErrRetrieval wraps failures of the document retriever.
var ErrRetrieval = errors.New("document retrieval failed")

// errGeneration marks a compute result that must reach the caller but not the cache.
var errGeneration = errors.New("answer generation failed")

// Retriever returns the k passages most relevant to query, best first.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]models.Document, error)
}

// AskRequest is one question to answer. SearchQuery drives retrieval and
// falls back to Question when empty; the cache is keyed on Question alone.
type AskRequest struct {
	Question    string
	QueryType   models.QueryType
	SearchQuery string
}

// Answerer composes retrieval, prompt selection and generation behind a QueryCache.
type Answerer struct {
	retriever Retriever
	generator models.TextGenerator
	cache     *QueryCache
	topK      int
	timeout   time.Duration
}

// Option configures an Answerer.
type Option func(*Answerer)

func WithTopK(k int) Option {
	return func(a *Answerer) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(a *Answerer) { a.timeout = d }
}

// WithCache replaces the default QueryCache.
func WithCache(c *QueryCache) Option {
	return func(a *Answerer) {
		if c != nil {
			a.cache = c
		}
	}
}

// NewAnswerer creates an Answerer.
func NewAnswerer(retriever Retriever, generator models.TextGenerator, opts ...Option) *Answerer {
	a := &Answerer{
		retriever: retriever,
		generator: generator,
		cache:     NewQueryCache(DefaultCacheCapacity),
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers req. A cached answer for the same normalized question is returned
// as is, even if it was produced under another query type. Generation failures
// yield ApologyAnswer with a nil error and are not cached; retrieval failures
// are returned as errors.
func (a *Answerer) Ask(ctx context.Context, req AskRequest) (models.AnswerResult, error) {
	start := time.Now()

	res, hit, err := a.cache.GetOrCompute(ctx, req.Question, func(ctx context.Context) (models.AnswerResult, error) {
		docs, err := a.Retrieve(ctx, req.SearchQuery, req.Question)
		if err != nil {
			return models.AnswerResult{}, err
		}
		text, err := a.generate(ctx, BuildPrompt(req.QueryType, req.Question, docs))
		if err != nil {
			return models.AnswerResult{}, fmt.Errorf("%w: %w", errGeneration, err)
		}
		return models.AnswerResult{AnswerText: text, SourceDocuments: docs}, nil
	})
	metrics.RecordCacheLookup(hit)

	switch {
	case errors.Is(err, errGeneration):
		metrics.RecordGenerationFailure()
		slog.Warn("answer generation failed",
			"question_key", cache.QuestionKey(req.Question),
			"error", err,
		)
		return models.AnswerResult{AnswerText: ApologyAnswer, SourceDocuments: []models.Document{}}, nil
	case err != nil:
		return models.AnswerResult{}, err
	}

	if !hit {
		slog.Info("answer generated",
			"question_key", cache.QuestionKey(req.Question),
			"query_type", req.QueryType,
			"documents", len(res.SourceDocuments),
			"duration_ms", time.Since(start).Milliseconds(),
			"cache_hit_rate", a.cache.HitRate(),
		)
	}
	return res, nil
}

// Retrieve fetches the top-k passages for query, or for fallback when query is empty.
func (a *Answerer) Retrieve(ctx context.Context, query, fallback string) ([]models.Document, error) {
	if query == "" {
		query = fallback
	}
	docs, err := a.retriever.Search(ctx, query, a.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (a *Answerer) generate(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.generator.Generate(ctx, prompt)
}

func (a *Answerer) Stats() CacheStats { return a.cache.Stats() }

// ClearCache drops every cached answer and resets the counters.
func (a *Answerer) ClearCache() {
	a.cache.Clear()
	slog.Info("answer cache cleared")
}
