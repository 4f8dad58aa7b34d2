package knowledge

import (
	"github.com/poiesic/recall/retrieval"
)

const (
	// DefaultKeywordWeight is the default ensemble weight of the BM25 retriever.
	DefaultKeywordWeight = 0.5

	// DefaultVectorWeight is the default ensemble weight of the similarity retriever.
	DefaultVectorWeight = 0.5
)

// hybridConfig holds the weights for the hybrid ensemble.
type hybridConfig struct {
	keywordWeight float64
	vectorWeight  float64
}

// HybridOption configures a hybrid retriever.
type HybridOption func(*hybridConfig)

// WithKeywordWeight sets the ensemble weight of the keyword retriever.
// Default is DefaultKeywordWeight.
func WithKeywordWeight(weight float64) HybridOption {
	return func(c *hybridConfig) {
		c.keywordWeight = weight
	}
}

// WithVectorWeight sets the ensemble weight of the vector retriever.
// Default is DefaultVectorWeight.
func WithVectorWeight(weight float64) HybridOption {
	return func(c *hybridConfig) {
		c.vectorWeight = weight
	}
}

// NewHybridRetriever combines a keyword retriever and a vector retriever into
// a weighted ensemble over the knowledge base. With default weights both
// retrieval strategies contribute equally.
func NewHybridRetriever(keyword, vector retrieval.Retriever, opts ...HybridOption) (*retrieval.Ensemble, error) {
	cfg := &hybridConfig{
		keywordWeight: DefaultKeywordWeight,
		vectorWeight:  DefaultVectorWeight,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return retrieval.NewEnsemble([]retrieval.WeightedRetriever{
		{Retriever: keyword, Weight: cfg.keywordWeight},
		{Retriever: vector, Weight: cfg.vectorWeight},
	})
}
