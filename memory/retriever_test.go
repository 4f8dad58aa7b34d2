package memory

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEmbedder(vectors map[string][]float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return []float32{0, 0, 1}, nil
	}
	return embedder
}

func TestNewRetriever(t *testing.T) {
	t.Run("nil repository", func(t *testing.T) {
		_, err := NewRetriever(nil, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrMemoryRepositoryRequired)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewRetriever(newTestMemoryRepo(t), nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})
}

func TestRetrieverRetrieve(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("recalls similar messages with metadata", func(t *testing.T) {
		repo := newTestMemoryRepo(t)
		_, err := repo.AddMemoryRecords(ctx,
			&core.MemoryRecord{Role: core.RoleHuman, Contents: "we talked about Paris", Timestamp: now, Vector: []float32{1, 0, 0}},
			&core.MemoryRecord{Role: core.RoleAI, Contents: "Paris is lovely in spring", Timestamp: now, Vector: []float32{0.9, 0.1, 0}},
			&core.MemoryRecord{Role: core.RoleHuman, Contents: "unrelated cooking chat", Timestamp: now, Vector: []float32{0, 1, 0}},
		)
		require.NoError(t, err)

		r, err := NewRetriever(repo, fixedEmbedder(map[string][]float32{
			"Paris": {1, 0, 0},
		}))
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "Paris", 5)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "we talked about Paris", docs[0].Content)
		assert.Equal(t, "human", docs[0].Metadata["role"])
		assert.NotEmpty(t, docs[0].Metadata["timestamp"])
	})

	t.Run("similarity floor filters unrelated memories", func(t *testing.T) {
		repo := newTestMemoryRepo(t)
		_, err := repo.AddMemoryRecords(ctx,
			&core.MemoryRecord{Role: core.RoleHuman, Contents: "borderline", Timestamp: now, Vector: []float32{0.5, 0.5, 0}},
		)
		require.NoError(t, err)

		r, err := NewRetriever(repo, fixedEmbedder(map[string][]float32{
			"query": {1, 0, 0},
		}), WithRetrieverMinSimilarity(0.9))
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "query", 5)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("invalid depth", func(t *testing.T) {
		r, err := NewRetriever(newTestMemoryRepo(t), mock.NewMockEmbedder())
		require.NoError(t, err)

		_, err = r.Retrieve(ctx, "query", 0)
		assert.ErrorIs(t, err, retrieval.ErrInvalidDepth)
	})
}
