package mock

import (
	"context"
	"strings"
)

// MockQueryDecomposer is a test double for ai.QueryDecomposer.
// It allows custom behavior injection via function fields.
type MockQueryDecomposer struct {
	// DecomposeFunc is called by Decompose if set.
	// If nil, uses default deterministic behavior.
	DecomposeFunc func(ctx context.Context, question string) ([]string, error)

	callCount int
}

// NewMockQueryDecomposer creates a mock decomposer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockDecomposer().
func NewMockQueryDecomposer() *MockQueryDecomposer {
	return &MockQueryDecomposer{}
}

// Decompose splits the question on " and " to simulate decomposition.
// A question without conjunctions comes back as a single sub-query.
func (m *MockQueryDecomposer) Decompose(ctx context.Context, question string) ([]string, error) {
	m.callCount++

	if m.DecomposeFunc != nil {
		return m.DecomposeFunc(ctx, question)
	}

	var subQueries []string
	for _, part := range strings.Split(question, " and ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subQueries = append(subQueries, part)
	}
	if len(subQueries) == 0 {
		subQueries = []string{question}
	}
	return subQueries, nil
}

// CallCount returns the number of times Decompose was called.
func (m *MockQueryDecomposer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockQueryDecomposer) Reset() {
	m.callCount = 0
	m.DecomposeFunc = nil
}
