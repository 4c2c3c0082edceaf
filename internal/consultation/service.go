// Package consultation runs the full question pipeline: intent analysis,
// emergency evaluation, query enhancement, answering and response assembly.
package consultation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/yaktalk/internal/cache"
	"github.com/kiranshivaraju/yaktalk/internal/emergency"
	"github.com/kiranshivaraju/yaktalk/internal/intent"
	"github.com/kiranshivaraju/yaktalk/internal/metrics"
	"github.com/kiranshivaraju/yaktalk/internal/rag"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

var (
	// ErrSetupRequired is returned when the drug index is not ready to serve.
	ErrSetupRequired = errors.New("retrieval index not initialized")
	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrPanic wraps a panic recovered inside the pipeline.
	ErrPanic = errors.New("consultation panicked")
)

// Stage names a pipeline step, reported on failure.
type Stage string

const (
	StageAnalyzeIntent      Stage = "analyze_intent"
	StageEvaluateEmergency  Stage = "evaluate_emergency"
	StageBuildEnhancedQuery Stage = "build_enhanced_query"
	StageAnswer             Stage = "answer"
	StageAssembleResponse   Stage = "assemble_response"
)

// IntentAnalyzer classifies a question. It must not fail.
type IntentAnalyzer interface {
	Analyze(ctx context.Context, question string) models.AnalysisResult
}

// EmergencyEvaluator grades an analysis.
type EmergencyEvaluator interface {
	Evaluate(analysis models.AnalysisResult) models.EmergencyRecord
}

// Answerer produces the base answer and exposes raw retrieval.
type Answerer interface {
	Ask(ctx context.Context, req rag.AskRequest) (models.AnswerResult, error)
	Retrieve(ctx context.Context, query, fallback string) ([]models.Document, error)
}

// Recorder persists the outcome of every consultation.
type Recorder interface {
	CreateConsultation(ctx context.Context, rec *models.ConsultationRecord) error
}

// ReadinessFunc reports a non-nil error while the drug index cannot serve.
type ReadinessFunc func(ctx context.Context) error

// Result is the outcome of one consultation. On failure only Success,
// Question, Error and FailedStage are set.
type Result struct {
	Success         bool                    `json:"success"                    yaml:"success"`
	Question        string                  `json:"question"                   yaml:"question"`
	Analysis        *models.AnalysisResult  `json:"analysis,omitempty"         yaml:"analysis,omitempty"`
	Emergency       *models.EmergencyRecord `json:"emergency,omitempty"        yaml:"emergency,omitempty"`
	BaseAnswer      string                  `json:"base_answer,omitempty"      yaml:"base_answer,omitempty"`
	FinalResponse   string                  `json:"final_response,omitempty"   yaml:"final_response,omitempty"`
	EnhancedQuery   string                  `json:"enhanced_query,omitempty"   yaml:"enhanced_query,omitempty"`
	SourceDocuments []models.Document       `json:"source_documents,omitempty" yaml:"source_documents,omitempty"`
	Error           string                  `json:"error,omitempty"            yaml:"error,omitempty"`
	FailedStage     Stage                   `json:"failed_stage,omitempty"     yaml:"failed_stage,omitempty"`

	// Err is the underlying failure, for errors.Is at the transport boundary.
	Err error `json:"-" yaml:"-"`
}

// SearchResult is the retrieval-only view of a question.
type SearchResult struct {
	Query         string                `json:"query"          yaml:"query"`
	Analysis      models.AnalysisResult `json:"analysis"       yaml:"analysis"`
	EnhancedQuery string                `json:"enhanced_query" yaml:"enhanced_query"`
	Documents     []models.Document     `json:"documents"      yaml:"documents"`
}

// Service orchestrates consultations. It is safe for concurrent use.
type Service struct {
	analyzer  IntentAnalyzer
	evaluator EmergencyEvaluator
	answerer  Answerer
	recorder  Recorder
	ready     ReadinessFunc
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder persists every consultation outcome through r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithReadiness gates every consultation on fn.
func WithReadiness(fn ReadinessFunc) Option {
	return func(s *Service) { s.ready = fn }
}

// NewService creates a Service. A nil answerer leaves the service in the
// setup-required state.
func NewService(analyzer IntentAnalyzer, evaluator EmergencyEvaluator, answerer Answerer, opts ...Option) *Service {
	s := &Service{analyzer: analyzer, evaluator: evaluator, answerer: answerer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready returns ErrSetupRequired (wrapped) while consultations cannot run.
func (s *Service) Ready(ctx context.Context) error {
	if s.answerer == nil {
		return ErrSetupRequired
	}
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrSetupRequired, err)
		}
	}
	return nil
}

// Complete runs one consultation. It never returns an error or panics:
// failures are reported in the Result.
func (s *Service) Complete(ctx context.Context, question string) (res Result) {
	start := time.Now()
	var stage Stage
	var analysis *models.AnalysisResult

	defer func() {
		if r := recover(); r != nil {
			slog.Error("consultation panicked",
				"stage", stage,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			res = failure(question, stage, fmt.Errorf("%w: %v", ErrPanic, r))
		}
		s.finish(ctx, res, analysis, start)
	}()

	if strings.TrimSpace(question) == "" {
		return failure(question, "", ErrEmptyQuestion)
	}
	if err := s.Ready(ctx); err != nil {
		slog.Warn("consultation rejected", "error", err)
		return failure(question, "", err)
	}

	stage = StageAnalyzeIntent
	a := s.analyzer.Analyze(ctx, question)
	analysis = &a

	stage = StageEvaluateEmergency
	record := s.evaluator.Evaluate(a)

	stage = StageBuildEnhancedQuery
	enhanced := intent.EnhanceQuery(question, a)

	stage = StageAnswer
	answer, err := s.answerer.Ask(ctx, rag.AskRequest{
		Question:    question,
		QueryType:   a.QueryType,
		SearchQuery: enhanced,
	})
	if err != nil {
		slog.Error("consultation failed",
			"stage", stage,
			"question_key", cache.QuestionKey(question),
			"error", err,
		)
		return failure(question, stage, err)
	}

	stage = StageAssembleResponse
	return Result{
		Success:         true,
		Question:        question,
		Analysis:        &a,
		Emergency:       &record,
		BaseAnswer:      answer.AnswerText,
		FinalResponse:   emergency.FinalResponse(answer.AnswerText, record),
		EnhancedQuery:   enhanced,
		SourceDocuments: answer.SourceDocuments,
	}
}

// Search analyzes and enhances query, then retrieves passages without
// generating an answer.
func (s *Service) Search(ctx context.Context, query string) (SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return SearchResult{}, ErrEmptyQuestion
	}
	if err := s.Ready(ctx); err != nil {
		return SearchResult{}, err
	}

	analysis := s.analyzer.Analyze(ctx, query)
	enhanced := intent.EnhanceQuery(query, analysis)
	docs, err := s.answerer.Retrieve(ctx, enhanced, query)
	if err != nil {
		return SearchResult{}, err
	}

	slog.Info("search completed",
		"question_key", cache.QuestionKey(query),
		"enhanced_query", enhanced,
		"documents", len(docs),
	)
	return SearchResult{Query: query, Analysis: analysis, EnhancedQuery: enhanced, Documents: docs}, nil
}

func (s *Service) finish(ctx context.Context, res Result, analysis *models.AnalysisResult, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecordConsultation(res.Success, string(res.FailedStage), elapsed)

	rec := &models.ConsultationRecord{
		ID:        uuid.New(),
		Question:  res.Question,
		Success:   res.Success,
		CreatedAt: time.Now().UTC(),
	}
	if analysis != nil {
		rec.QueryType = analysis.QueryType
		metrics.RecordQueryType(string(analysis.QueryType))
	}
	if res.Emergency != nil {
		rec.EmergencyLevel = res.Emergency.Level
		metrics.RecordEmergencyLevel(res.Emergency.Level)
	}
	if !res.Success {
		msg := res.Error
		rec.ErrorMessage = &msg
	}

	if res.Success {
		slog.Info("consultation completed",
			"consultation_id", rec.ID,
			"question_key", cache.QuestionKey(res.Question),
			"query_type", rec.QueryType,
			"level", rec.EmergencyLevel,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	if s.recorder == nil || errors.Is(res.Err, ErrEmptyQuestion) {
		return
	}
	if err := s.recorder.CreateConsultation(context.WithoutCancel(ctx), rec); err != nil {
		slog.Warn("failed to record consultation", "consultation_id", rec.ID, "error", err)
	}
}

func failure(question string, stage Stage, err error) Result {
	return Result{
		Success:     false,
		Question:    question,
		Error:       err.Error(),
		FailedStage: stage,
		Err:         err,
	}
}
