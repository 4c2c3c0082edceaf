package consultation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kiranshivaraju/yaktalk/internal/ai/mock"
	"github.com/kiranshivaraju/yaktalk/internal/consultation"
	"github.com/kiranshivaraju/yaktalk/internal/emergency"
	"github.com/kiranshivaraju/yaktalk/internal/intent"
	"github.com/kiranshivaraju/yaktalk/internal/rag"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeRetriever struct {
	docs    []models.Document
	err     error
	queries []string
}

func (f *fakeRetriever) Search(_ context.Context, query string, _ int) ([]models.Document, error) {
	f.queries = append(f.queries, query)
	return f.docs, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []models.ConsultationRecord
	err     error
}

func (f *fakeRecorder) CreateConsultation(_ context.Context, rec *models.ConsultationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *rec)
	return f.err
}

type panickingEvaluator struct{}

func (panickingEvaluator) Evaluate(models.AnalysisResult) models.EmergencyRecord {
	panic("rule table corrupted")
}

const severeReply = `{"query_type":"side_effect","detected_drugs":["아스피린"],"symptoms":["호흡곤란","의식잃음"],"emergency_keywords":["119"],"confidence":0.95,"reasoning":"복용 후 심각한 증상"}`

func docs() []models.Document {
	return []models.Document{{
		Content:  "아스피린의 부작용: 드물게 천식 발작, 호흡곤란이 나타날 수 있습니다.",
		Metadata: models.DocumentMetadata{DrugName: "아스피린", Field: "부작용", ItemCode: "196500001", SourceRow: 3},
	}}
}

func newService(t *testing.T, classifierReply string, retriever rag.Retriever, opts ...consultation.Option) *consultation.Service {
	t.Helper()
	p := mock.NewClassifyingProvider(classifierReply)
	return consultation.NewService(
		intent.NewAnalyzer(p),
		emergency.NewEvaluator(),
		rag.NewAnswerer(retriever, p),
		opts...,
	)
}

// --- Complete ---

func TestComplete_Success(t *testing.T) {
	r := &fakeRetriever{docs: docs()}
	s := newService(t, severeReply, r)

	res := s.Complete(context.Background(), "아스피린 먹고 숨이 안 쉬어져요")

	require.True(t, res.Success, res.Error)
	assert.Empty(t, res.Error)
	assert.Empty(t, res.FailedStage)
	assert.NoError(t, res.Err)
	assert.Equal(t, "아스피린 먹고 숨이 안 쉬어져요", res.Question)

	require.NotNil(t, res.Analysis)
	assert.Equal(t, models.QueryTypeSideEffect, res.Analysis.QueryType)

	require.NotNil(t, res.Emergency)
	assert.Equal(t, 5, res.Emergency.Level)
	assert.Contains(t, res.Emergency.Action, "119")

	assert.Equal(t, mock.DefaultAnswer, res.BaseAnswer)
	assert.Contains(t, res.FinalResponse, mock.DefaultAnswer)
	assert.Contains(t, res.FinalResponse, "Level 5")
	assert.Contains(t, res.FinalResponse, res.Emergency.Description)
	assert.NotContains(t, res.FinalResponse, emergency.PlaceholderBaseAnswer)

	assert.Equal(t, "아스피린 먹고 숨이 안 쉬어져요 아스피린 호흡곤란 의식잃음 부작용", res.EnhancedQuery)
	assert.Equal(t, []string{res.EnhancedQuery}, r.queries)
	assert.Equal(t, docs(), res.SourceDocuments)
}

func TestComplete_UsageQuestionIsLevelZero(t *testing.T) {
	s := newService(t, `{"query_type":"usage","detected_drugs":["해열제"],"symptoms":["발열"],"confidence":0.9}`, &fakeRetriever{docs: docs()})

	res := s.Complete(context.Background(), "해열제 하루에 몇 번 먹어야 하나요?")

	require.True(t, res.Success)
	assert.Equal(t, 0, res.Emergency.Level)
	assert.Equal(t, emergency.NotApplicableDescription, res.Emergency.Description)
	assert.Contains(t, res.EnhancedQuery, "복용법 사용법")
}

func TestComplete_ClassifierFailureStillAnswers(t *testing.T) {
	p := mock.NewMockProvider()
	p.ClassifyFunc = func(context.Context, string, string) (string, error) {
		return "", errors.New("classifier down")
	}
	s := consultation.NewService(intent.NewAnalyzer(p), emergency.NewEvaluator(), rag.NewAnswerer(&fakeRetriever{docs: docs()}, p))

	res := s.Complete(context.Background(), "두통에 좋은 약 추천해주세요")

	require.True(t, res.Success)
	assert.Equal(t, intent.FailedReasoning, res.Analysis.Reasoning)
	assert.Equal(t, 0, res.Emergency.Level)
	assert.Equal(t, "두통에 좋은 약 추천해주세요", res.EnhancedQuery)
}

func TestComplete_GenerationFailureYieldsApology(t *testing.T) {
	p := mock.NewClassifyingProvider(severeReply)
	p.GenerateFunc = func(context.Context, string) (string, error) {
		return "", errors.New("llm down")
	}
	s := consultation.NewService(intent.NewAnalyzer(p), emergency.NewEvaluator(), rag.NewAnswerer(&fakeRetriever{docs: docs()}, p))

	res := s.Complete(context.Background(), "q")

	require.True(t, res.Success)
	assert.Equal(t, rag.ApologyAnswer, res.BaseAnswer)
	assert.Contains(t, res.FinalResponse, rag.ApologyAnswer)
}

func TestComplete_RetrievalFailureIsFailureRecord(t *testing.T) {
	rec := &fakeRecorder{}
	s := newService(t, severeReply, &fakeRetriever{err: errors.New("connection refused")}, consultation.WithRecorder(rec))

	res := s.Complete(context.Background(), "아스피린 먹고 숨이 안 쉬어져요")

	assert.False(t, res.Success)
	assert.Equal(t, consultation.StageAnswer, res.FailedStage)
	assert.Equal(t, "아스피린 먹고 숨이 안 쉬어져요", res.Question)
	assert.Contains(t, res.Error, "connection refused")
	assert.ErrorIs(t, res.Err, rag.ErrRetrieval)
	assert.Nil(t, res.Analysis)
	assert.Nil(t, res.Emergency)
	assert.Empty(t, res.FinalResponse)

	require.Len(t, rec.records, 1)
	assert.False(t, rec.records[0].Success)
	assert.Equal(t, models.QueryTypeSideEffect, rec.records[0].QueryType)
	require.NotNil(t, rec.records[0].ErrorMessage)
	assert.Contains(t, *rec.records[0].ErrorMessage, "connection refused")
}

func TestComplete_NoAnswererIsSetupRequired(t *testing.T) {
	var calls int
	p := mock.NewMockProvider()
	p.ClassifyFunc = func(context.Context, string, string) (string, error) {
		calls++
		return severeReply, nil
	}
	s := consultation.NewService(intent.NewAnalyzer(p), emergency.NewEvaluator(), nil)

	res := s.Complete(context.Background(), "q")

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, consultation.ErrSetupRequired)
	assert.Empty(t, res.FailedStage)
	assert.Equal(t, "q", res.Question)
	assert.Zero(t, calls, "no stage should run")
}

func TestComplete_ReadinessGate(t *testing.T) {
	s := newService(t, severeReply, &fakeRetriever{docs: docs()},
		consultation.WithReadiness(func(context.Context) error { return errors.New("no documents loaded") }))

	res := s.Complete(context.Background(), "q")

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, consultation.ErrSetupRequired)
	assert.Contains(t, res.Error, "no documents loaded")
}

func TestComplete_EmptyQuestion(t *testing.T) {
	rec := &fakeRecorder{}
	s := newService(t, severeReply, &fakeRetriever{docs: docs()}, consultation.WithRecorder(rec))

	res := s.Complete(context.Background(), "   ")

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, consultation.ErrEmptyQuestion)
	assert.Empty(t, rec.records)
}

func TestComplete_PanicIsRecovered(t *testing.T) {
	p := mock.NewClassifyingProvider(severeReply)
	s := consultation.NewService(intent.NewAnalyzer(p), panickingEvaluator{}, rag.NewAnswerer(&fakeRetriever{}, p))

	var res consultation.Result
	require.NotPanics(t, func() { res = s.Complete(context.Background(), "q") })

	assert.False(t, res.Success)
	assert.Equal(t, consultation.StageEvaluateEmergency, res.FailedStage)
	assert.ErrorIs(t, res.Err, consultation.ErrPanic)
	assert.Contains(t, res.Error, "rule table corrupted")
}

func TestComplete_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	s := newService(t, severeReply, &fakeRetriever{docs: docs()}, consultation.WithRecorder(rec))

	s.Complete(context.Background(), "아스피린 먹고 숨이 안 쉬어져요")

	require.Len(t, rec.records, 1)
	got := rec.records[0]
	assert.True(t, got.Success)
	assert.Equal(t, 5, got.EmergencyLevel)
	assert.Equal(t, models.QueryTypeSideEffect, got.QueryType)
	assert.Nil(t, got.ErrorMessage)
	assert.NotZero(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestComplete_RecorderErrorDoesNotFailConsultation(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("insert failed")}
	s := newService(t, severeReply, &fakeRetriever{docs: docs()}, consultation.WithRecorder(rec))

	res := s.Complete(context.Background(), "q")

	assert.True(t, res.Success)
}

func TestComplete_RepeatedQuestionHitsCache(t *testing.T) {
	var generations int
	p := mock.NewClassifyingProvider(severeReply)
	p.GenerateFunc = func(context.Context, string) (string, error) {
		generations++
		return "answer", nil
	}
	answerer := rag.NewAnswerer(&fakeRetriever{docs: docs()}, p)
	s := consultation.NewService(intent.NewAnalyzer(p), emergency.NewEvaluator(), answerer)

	first := s.Complete(context.Background(), "타이레놀 먹고 속이 아파요")
	second := s.Complete(context.Background(), "타이레놀 먹고 속이 아파요")

	assert.Equal(t, first.BaseAnswer, second.BaseAnswer)
	assert.Equal(t, 1, generations)
	assert.Equal(t, 1, answerer.Stats().CacheHits)
	assert.Equal(t, 1, answerer.Stats().CacheMisses)
}

// --- Search ---

func TestSearch(t *testing.T) {
	var generated bool
	p := mock.NewClassifyingProvider(severeReply)
	p.GenerateFunc = func(context.Context, string) (string, error) {
		generated = true
		return "", nil
	}
	r := &fakeRetriever{docs: docs()}
	s := consultation.NewService(intent.NewAnalyzer(p), emergency.NewEvaluator(), rag.NewAnswerer(r, p))

	res, err := s.Search(context.Background(), "아스피린 부작용")

	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, "아스피린 부작용", res.Query)
	assert.Equal(t, "아스피린 부작용 아스피린 호흡곤란 의식잃음 부작용", res.EnhancedQuery)
	assert.Equal(t, docs(), res.Documents)
	assert.Equal(t, []string{res.EnhancedQuery}, r.queries)
}

func TestSearch_Errors(t *testing.T) {
	s := consultation.NewService(intent.NewAnalyzer(mock.NewMockProvider()), emergency.NewEvaluator(), nil)

	_, err := s.Search(context.Background(), "")
	assert.ErrorIs(t, err, consultation.ErrEmptyQuestion)

	_, err = s.Search(context.Background(), "q")
	assert.ErrorIs(t, err, consultation.ErrSetupRequired)
}
