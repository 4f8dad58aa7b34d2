package retrieval

import (
	"context"

	"github.com/poiesic/recall/core"
)

// Retriever returns passages relevant to a query, most relevant first.
// Implementations must be safe for concurrent use, must hold no per-call
// mutable state, and must return an empty slice (not an error) when nothing
// matches.
type Retriever interface {
	// Retrieve returns up to k documents ranked by relevance to query.
	Retrieve(ctx context.Context, query string, k int) ([]*core.Document, error)
}

// WeightedRetriever pairs a Retriever with a relative, non-negative weight.
// Weights need not sum to 1.
type WeightedRetriever struct {
	Retriever Retriever
	Weight    float64
}

// RetrieverFunc adapts a plain function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, query string, k int) ([]*core.Document, error)

// Retrieve calls f.
func (f RetrieverFunc) Retrieve(ctx context.Context, query string, k int) ([]*core.Document, error) {
	return f(ctx, query, k)
}
