// Package intent classifies drug questions and extracts the drugs, symptoms
// and emergency keywords they mention.
package intent

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kiranshivaraju/yaktalk/internal/cache"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// FailedReasoning is the reasoning of the safe default result.
const FailedReasoning = "분석 실패"

// Analyzer turns a question into an AnalysisResult.
type Analyzer struct {
	classifier models.TextUnderstanding
	timeout    time.Duration
	memo       *gocache.Cache
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTimeout bounds each classifier call.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

// WithMemo keeps successful analyses of a normalized question for ttl.
// A non-positive ttl disables memoization.
func WithMemo(ttl time.Duration) Option {
	return func(a *Analyzer) {
		if ttl <= 0 {
			a.memo = nil
			return
		}
		a.memo = gocache.New(ttl, 2*ttl)
	}
}

// NewAnalyzer creates an Analyzer backed by classifier.
func NewAnalyzer(classifier models.TextUnderstanding, opts ...Option) *Analyzer {
	a := &Analyzer{classifier: classifier}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies question. It never fails: classifier errors and
// malformed replies yield the safe default result.
func (a *Analyzer) Analyze(ctx context.Context, question string) models.AnalysisResult {
	key := cache.QuestionKey(question)
	if a.memo != nil {
		if v, ok := a.memo.Get(key); ok {
			return clone(v.(models.AnalysisResult))
		}
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.classifier.Classify(callCtx, question, Instruction)
	if err != nil {
		slog.Warn("intent classification failed", "question_key", key, "error", err)
		return Default()
	}

	result, err := parseReply(raw)
	if err != nil {
		slog.Warn("intent reply rejected", "question_key", key, "error", err)
		return Default()
	}

	if local := DetectEmergencyKeywords(question); len(local) > 0 {
		result.EmergencyKeywords = dedupe(append(result.EmergencyKeywords, local...))
	}

	slog.Info("intent analyzed",
		"question_key", key,
		"query_type", result.QueryType,
		"drugs", len(result.DetectedDrugs),
		"symptoms", len(result.Symptoms),
		"emergency_keywords", len(result.EmergencyKeywords),
		"confidence", result.Confidence,
	)

	if a.memo != nil {
		a.memo.SetDefault(key, clone(result))
	}
	return result
}

// Default returns the safe default analysis used when classification fails.
func Default() models.AnalysisResult {
	return models.AnalysisResult{
		QueryType:         models.QueryTypeOther,
		DetectedDrugs:     []string{},
		Symptoms:          []string{},
		EmergencyKeywords: []string{},
		Confidence:        0.0,
		Reasoning:         FailedReasoning,
	}
}

func clone(r models.AnalysisResult) models.AnalysisResult {
	r.DetectedDrugs = append([]string{}, r.DetectedDrugs...)
	r.Symptoms = append([]string{}, r.Symptoms...)
	r.EmergencyKeywords = append([]string{}, r.EmergencyKeywords...)
	return r
}
