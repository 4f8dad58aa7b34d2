package memory

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/storage"
)

// DefaultMinSimilarity is the default similarity floor for memory recall.
// Conversation snippets below this similarity are considered unrelated.
const DefaultMinSimilarity = 0.60

// Retriever recalls past conversation messages by embedding similarity.
// It implements retrieval.Retriever.
type Retriever struct {
	memoryRepository storage.MemoryRepository
	embedder         ai.Embedder
	minSimilarity    float32
	logger           *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever) error

// WithRetrieverMinSimilarity sets the similarity floor for recalled messages.
// Default is DefaultMinSimilarity.
func WithRetrieverMinSimilarity(min float32) RetrieverOption {
	return func(r *Retriever) error {
		r.minSimilarity = min
		return nil
	}
}

// WithRetrieverLogger sets a custom logger.
// Default is slog.Default().
func WithRetrieverLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a long-term memory retriever.
func NewRetriever(memoryRepository storage.MemoryRepository, embedder ai.Embedder, opts ...RetrieverOption) (*Retriever, error) {
	if memoryRepository == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		memoryRepository: memoryRepository,
		embedder:         embedder,
		minSimilarity:    DefaultMinSimilarity,
		logger:           slog.Default().With("component", "memory-retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve embeds the query and returns the k most similar stored messages
// as documents, most similar first.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]*core.Document, error) {
	if k < 1 {
		return nil, retrieval.ErrInvalidDepth
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := r.memoryRepository.FindSimilar(ctx, vector, r.minSimilarity, k)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(matches))
	for _, match := range matches {
		docs = append(docs, &core.Document{
			Content: match.Record.Contents,
			Metadata: map[string]string{
				"role":      match.Record.Role.String(),
				"timestamp": match.Record.Timestamp.Format(time.RFC3339),
			},
		})
	}

	r.logger.Debug("memory retrieval complete", "query", query, "matches", len(docs))
	return docs, nil
}
