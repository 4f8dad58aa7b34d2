package knowledge

import (
	"context"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Run("lowercases and trims punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"eiffel", "tower", "paris"},
			tokenize("The Eiffel Tower, in Paris!"))
	})

	t.Run("removes stop words", func(t *testing.T) {
		assert.Empty(t, tokenize("the a an is to of"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, tokenize("   "))
	})
}

func seedChunks(t *testing.T, ctx context.Context, repo storage.ChunkRepository, contents ...string) {
	t.Helper()
	chunks := make([]*core.KnowledgeChunk, len(contents))
	for i, c := range contents {
		chunks[i] = &core.KnowledgeChunk{Source: "kb.txt", Contents: c}
	}
	_, err := repo.AddChunks(ctx, chunks...)
	require.NoError(t, err)
}

func TestKeywordRetriever(t *testing.T) {
	ctx := context.Background()

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewKeywordRetriever(ctx, nil)
		assert.ErrorIs(t, err, ErrChunkRepositoryRequired)
	})

	t.Run("ranks by term relevance", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		seedChunks(t, ctx, chunkRepo,
			"The Eiffel Tower stands in Paris. The Eiffel Tower is made of iron.",
			"Paris has many museums worth visiting.",
			"Berlin has a famous television tower.",
		)

		r, err := NewKeywordRetriever(ctx, chunkRepo)
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "Eiffel Tower", 10)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Contains(t, docs[0].Content, "Eiffel Tower stands")
		assert.Contains(t, docs[1].Content, "television tower")
		assert.Equal(t, "kb.txt", docs[0].Metadata["source"])
	})

	t.Run("no shared terms yields no documents", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		seedChunks(t, ctx, chunkRepo, "Completely unrelated contents.")

		r, err := NewKeywordRetriever(ctx, chunkRepo)
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "quantum entanglement", 5)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("stop word only query", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		seedChunks(t, ctx, chunkRepo, "The tower is in the city.")

		r, err := NewKeywordRetriever(ctx, chunkRepo)
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "the and of", 5)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("truncates to k", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		seedChunks(t, ctx, chunkRepo,
			"tower one", "tower two", "tower three", "tower four",
		)

		r, err := NewKeywordRetriever(ctx, chunkRepo)
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "tower", 2)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("invalid depth", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)

		r, err := NewKeywordRetriever(ctx, chunkRepo)
		require.NoError(t, err)

		_, err = r.Retrieve(ctx, "tower", 0)
		assert.ErrorIs(t, err, retrieval.ErrInvalidDepth)
	})

	t.Run("refresh picks up new chunks", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		seedChunks(t, ctx, chunkRepo, "old chunk about rivers")

		r, err := NewKeywordRetriever(ctx, chunkRepo)
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "mountains", 5)
		require.NoError(t, err)
		require.Empty(t, docs)

		seedChunks(t, ctx, chunkRepo, "new chunk about mountains")
		require.NoError(t, r.Refresh(ctx))

		docs, err = r.Retrieve(ctx, "mountains", 5)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}
