package mock

import (
	"context"

	"github.com/kiranshivaraju/yaktalk/internal/ai"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// DefaultClassification is the reply NewMockProvider returns from Classify.
const DefaultClassification = `{"query_type":"side_effect","detected_drugs":["타이레놀"],"symptoms":["복통"],"emergency_keywords":[],"confidence":0.9,"reasoning":"mock classification"}`

// DefaultAnswer is the reply NewMockProvider returns from Generate.
const DefaultAnswer = "Mock answer: 복용 후 증상이 지속되면 전문가와 상담하세요."

// MockProvider satisfies models.AIProvider for testing.
type MockProvider struct {
	Name_        string
	ClassifyFunc func(ctx context.Context, question, instruction string) (string, error)
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Classify(ctx context.Context, question, instruction string) (string, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, question, instruction)
	}
	return "", nil
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", nil
}

// NewMockProvider returns a MockProvider with sensible default responses.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		ClassifyFunc: func(_ context.Context, _, _ string) (string, error) {
			return DefaultClassification, nil
		},
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return DefaultAnswer, nil
		},
	}
}

// NewClassifyingProvider returns a MockProvider whose Classify always replies
// with reply and whose Generate returns DefaultAnswer.
func NewClassifyingProvider(reply string) *MockProvider {
	p := NewMockProvider()
	p.ClassifyFunc = func(_ context.Context, _, _ string) (string, error) {
		return reply, nil
	}
	return p
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		ClassifyFunc: func(_ context.Context, _, _ string) (string, error) {
			return "", err
		},
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		ClassifyFunc: func(ctx context.Context, _, _ string) (string, error) {
			<-ctx.Done()
			return "", ai.ErrInferenceTimeout
		},
		GenerateFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ai.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements AIProvider.
var _ models.AIProvider = (*MockProvider)(nil)
