package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kiranshivaraju/yaktalk/internal/metrics"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// GuardedProvider wraps an AIProvider with an outbound rate limit, metrics and
// sentinel error mapping. Every failure it returns matches one of
// ErrInferenceTimeout, ErrRateLimited, ErrInvalidResponse or ErrProviderUnavailable.
type GuardedProvider struct {
	provider models.AIProvider
	limiter  *rate.Limiter
}

// NewGuardedProvider wraps p. A non-positive rps disables rate limiting.
func NewGuardedProvider(p models.AIProvider, rps float64, burst int) *GuardedProvider {
	g := &GuardedProvider{provider: p}
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return g
}

func (g *GuardedProvider) Name() string { return g.provider.Name() }

// Unwrap returns the underlying provider.
func (g *GuardedProvider) Unwrap() models.AIProvider { return g.provider }

func (g *GuardedProvider) Classify(ctx context.Context, question, instruction string) (string, error) {
	return g.call(ctx, "classify", func(ctx context.Context) (string, error) {
		return g.provider.Classify(ctx, question, instruction)
	})
}

func (g *GuardedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return g.call(ctx, "generate", func(ctx context.Context) (string, error) {
		return g.provider.Generate(ctx, prompt)
	})
}

func (g *GuardedProvider) call(ctx context.Context, op string, fn func(context.Context) (string, error)) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %s %s: %w", ErrRateLimited, g.provider.Name(), op, err)
		}
	}

	start := time.Now()
	text, err := fn(ctx)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("%w: %s %s returned empty text", ErrInvalidResponse, g.provider.Name(), op)
	}
	metrics.RecordAIRequest(g.provider.Name(), op, err, time.Since(start))
	if err != nil {
		return "", classify(ctx, err)
	}
	return text, nil
}

// classify maps a provider error onto the package sentinels.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrInferenceTimeout),
		errors.Is(err, ErrInvalidResponse),
		errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, ErrRateLimited):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrInferenceTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
}

var _ models.AIProvider = (*GuardedProvider)(nil)
