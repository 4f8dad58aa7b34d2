package ai

import (
	"context"

	"github.com/poiesic/recall/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryDecomposer breaks a complex question into atomic, self-contained
// sub-queries to broaden retrieval coverage.
// Implementations must be thread-safe for concurrent use.
type QueryDecomposer interface {
	// Decompose returns the sub-queries for the question, in the order the
	// model produced them. A question that cannot be decomposed yields a
	// single-element slice containing the question itself; an empty slice
	// is never returned without an error.
	Decompose(ctx context.Context, question string) ([]string, error)
}

// AnswerGenerator produces the final answer from retrieved context and
// conversation history.
// Implementations must be thread-safe for concurrent use.
type AnswerGenerator interface {
	// Generate answers the question using only the provided context
	// documents and the conversation history. The context documents are
	// ordered most relevant first.
	Generate(ctx context.Context, question string, docs []*core.Document, history []core.Message) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages its service instances, ensuring they share
// configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// QueryDecomposer returns the query decomposition service.
	// The returned QueryDecomposer is safe for concurrent use.
	QueryDecomposer() QueryDecomposer

	// AnswerGenerator returns the answer generation service.
	// The returned AnswerGenerator is safe for concurrent use.
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
