package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunkRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()

	memoryRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	})
	return chunkRepo
}

func writeKnowledgeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestNewLoader(t *testing.T) {
	chunkRepo := newTestChunkRepo(t)

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewLoader(nil, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrChunkRepositoryRequired)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewLoader(chunkRepo, nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("invalid chunk size", func(t *testing.T) {
		_, err := NewLoader(chunkRepo, mock.NewMockEmbedder(), WithChunkSize(0))
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("overlap not smaller than size", func(t *testing.T) {
		_, err := NewLoader(chunkRepo, mock.NewMockEmbedder(),
			WithChunkSize(100), WithChunkOverlap(100))
		assert.ErrorIs(t, err, ErrInvalidChunkOverlap)
	})
}

func TestLoaderIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes txt files with embeddings", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		dir := t.TempDir()
		writeKnowledgeFile(t, dir, "paris.txt", "Paris is the capital of France.")
		writeKnowledgeFile(t, dir, "berlin.txt", "Berlin is the capital of Germany.")
		writeKnowledgeFile(t, dir, "ignored.md", "Not part of the knowledge base.")

		loader, err := NewLoader(chunkRepo, mock.NewMockEmbedder())
		require.NoError(t, err)

		count, err := loader.Index(ctx, dir, false)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		chunks, err := chunkRepo.AllChunks(ctx)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk.Vector)
			assert.NotEmpty(t, chunk.Source)
		}
	})

	t.Run("skips when already indexed", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		dir := t.TempDir()
		writeKnowledgeFile(t, dir, "a.txt", "some contents")

		embedder := mock.NewMockEmbedder()
		loader, err := NewLoader(chunkRepo, embedder)
		require.NoError(t, err)

		count, err := loader.Index(ctx, dir, false)
		require.NoError(t, err)
		require.Equal(t, 1, count)

		embedder.Reset()
		count, err = loader.Index(ctx, dir, false)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, embedder.CallCount())
	})

	t.Run("force reindexes", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		dir := t.TempDir()
		writeKnowledgeFile(t, dir, "a.txt", "first version")

		loader, err := NewLoader(chunkRepo, mock.NewMockEmbedder())
		require.NoError(t, err)

		_, err = loader.Index(ctx, dir, false)
		require.NoError(t, err)

		writeKnowledgeFile(t, dir, "b.txt", "second document")

		count, err := loader.Index(ctx, dir, true)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("missing directory starts empty", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)

		loader, err := NewLoader(chunkRepo, mock.NewMockEmbedder())
		require.NoError(t, err)

		count, err := loader.Index(ctx, filepath.Join(t.TempDir(), "does-not-exist"), false)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("long documents are split with overlap", func(t *testing.T) {
		chunkRepo := newTestChunkRepo(t)
		dir := t.TempDir()

		long := ""
		for i := 0; i < 40; i++ {
			long += "The quick brown fox jumps over the lazy dog near the river bank. "
		}
		writeKnowledgeFile(t, dir, "long.txt", long)

		loader, err := NewLoader(chunkRepo, mock.NewMockEmbedder(),
			WithChunkSize(200), WithChunkOverlap(40))
		require.NoError(t, err)

		count, err := loader.Index(ctx, dir, false)
		require.NoError(t, err)
		assert.Greater(t, count, 1)
	})
}
