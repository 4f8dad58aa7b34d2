// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.QueryDecomposer,
// ai.AnswerGenerator, and ai.AIProvider for use in unit tests. The mocks allow
// tests to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockDecomposer := mock.NewMockQueryDecomposer()
//	mockDecomposer.DecomposeFunc = func(ctx context.Context, question string) ([]string, error) {
//	    return []string{"first", "second"}, nil
//	}
//
//	// Check call counts
//	count := mockDecomposer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockQueryDecomposer: Splits the question on " and "
//   - MockAnswerGenerator: Returns a deterministic answer describing its inputs
//   - MockProvider: Aggregates the three mock services
package mock
