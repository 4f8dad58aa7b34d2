package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/recall/core"
)

// MockAnswerGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via function fields.
type MockAnswerGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, question string, docs []*core.Document, history []core.Message) (string, error)

	callCount int
}

// NewMockAnswerGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockAnswerGenerator() *MockAnswerGenerator {
	return &MockAnswerGenerator{}
}

// Generate produces a deterministic answer describing its inputs.
func (m *MockAnswerGenerator) Generate(ctx context.Context, question string, docs []*core.Document, history []core.Message) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, question, docs, history)
	}

	return fmt.Sprintf("answer to %q from %d documents", question, len(docs)), nil
}

// CallCount returns the number of times Generate was called.
func (m *MockAnswerGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAnswerGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
