package knowledge

import (
	"context"
	"log/slog"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/storage"
)

// VectorRetriever retrieves knowledge base chunks by embedding similarity.
// It implements retrieval.Retriever.
type VectorRetriever struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	minSimilarity   float32
	logger          *slog.Logger
}

// VectorOption configures a VectorRetriever.
type VectorOption func(*VectorRetriever) error

// WithMinSimilarity sets the minimum cosine similarity for a chunk to be
// returned. Default is 0, meaning every chunk with a non-negative similarity
// qualifies.
func WithMinSimilarity(min float32) VectorOption {
	return func(v *VectorRetriever) error {
		v.minSimilarity = min
		return nil
	}
}

// WithVectorLogger sets a custom logger.
// Default is slog.Default().
func WithVectorLogger(logger *slog.Logger) VectorOption {
	return func(v *VectorRetriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		v.logger = logger
		return nil
	}
}

// NewVectorRetriever creates a similarity-based knowledge base retriever.
func NewVectorRetriever(chunkRepository storage.ChunkRepository, embedder ai.Embedder, opts ...VectorOption) (*VectorRetriever, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	v := &VectorRetriever{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		logger:          slog.Default().With("component", "knowledge-vector"),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Retrieve embeds the query and returns the k most similar chunks as
// documents, most similar first.
func (v *VectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]*core.Document, error) {
	if k < 1 {
		return nil, retrieval.ErrInvalidDepth
	}

	vector, err := v.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := v.chunkRepository.FindSimilar(ctx, vector, v.minSimilarity, k)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(matches))
	for _, match := range matches {
		docs = append(docs, &core.Document{
			Content: match.Chunk.Contents,
			Metadata: map[string]string{
				"source": match.Chunk.Source,
			},
		})
	}

	v.logger.Debug("vector retrieval complete", "query", query, "matches", len(docs))
	return docs, nil
}
