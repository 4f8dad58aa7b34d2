package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryRepo(t *testing.T) storage.MemoryRepository {
	t.Helper()

	memoryRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	})
	return memoryRepo
}

func messages(contents ...string) []core.Message {
	msgs := make([]core.Message, len(contents))
	for i, c := range contents {
		role := core.RoleHuman
		if i%2 == 1 {
			role = core.RoleAI
		}
		msgs[i] = core.Message{Role: role, Content: c}
	}
	return msgs
}

func TestNewManager(t *testing.T) {
	t.Run("nil repository", func(t *testing.T) {
		_, err := NewManager(nil, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrMemoryRepositoryRequired)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewManager(newTestMemoryRepo(t), nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("invalid window size", func(t *testing.T) {
		_, err := NewManager(newTestMemoryRepo(t), mock.NewMockEmbedder(), WithWindowSize(0))
		assert.ErrorIs(t, err, ErrInvalidWindowSize)
	})

	t.Run("defaults", func(t *testing.T) {
		m, err := NewManager(newTestMemoryRepo(t), mock.NewMockEmbedder())
		require.NoError(t, err)
		assert.Equal(t, DefaultWindowSize, m.WindowSize())
	})
}

func TestManagerStore(t *testing.T) {
	ctx := context.Background()

	t.Run("history within window unchanged", func(t *testing.T) {
		repo := newTestMemoryRepo(t)
		embedder := mock.NewMockEmbedder()
		m, err := NewManager(repo, embedder, WithWindowSize(4))
		require.NoError(t, err)

		history := messages("one", "two", "three")
		window, err := m.Store(ctx, history)
		require.NoError(t, err)
		assert.Equal(t, history, window)
		assert.Zero(t, embedder.CallCount())

		ids, err := repo.AllMemoryRecordIDs(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("overflow persisted and window trimmed", func(t *testing.T) {
		repo := newTestMemoryRepo(t)
		m, err := NewManager(repo, mock.NewMockEmbedder(), WithWindowSize(2))
		require.NoError(t, err)

		window, err := m.Store(ctx, messages("a", "b", "c", "d", "e"))
		require.NoError(t, err)
		require.Len(t, window, 2)
		assert.Equal(t, "d", window[0].Content)
		assert.Equal(t, "e", window[1].Content)

		ids, err := repo.AllMemoryRecordIDs(ctx)
		require.NoError(t, err)
		require.Len(t, ids, 3)

		records, err := repo.GetMemoryRecords(ctx, ids...)
		require.NoError(t, err)
		for _, record := range records {
			assert.NotEmpty(t, record.Vector)
		}

		// Recency index preserves conversation order
		recent, err := repo.GetRecentMemoryRecords(ctx, 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		assert.Equal(t, "c", recent[0].Contents)
		assert.Equal(t, "b", recent[1].Contents)
		assert.Equal(t, "a", recent[2].Contents)
	})

	t.Run("roles survive persistence", func(t *testing.T) {
		repo := newTestMemoryRepo(t)
		m, err := NewManager(repo, mock.NewMockEmbedder(), WithWindowSize(1))
		require.NoError(t, err)

		_, err = m.Store(ctx, []core.Message{
			{Role: core.RoleHuman, Content: "question"},
			{Role: core.RoleAI, Content: "answer"},
			{Role: core.RoleHuman, Content: "follow-up"},
		})
		require.NoError(t, err)

		recent, err := repo.GetRecentMemoryRecords(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, core.RoleAI, recent[0].Role)
		assert.Equal(t, core.RoleHuman, recent[1].Role)
	})

	t.Run("embedding failure leaves history untouched", func(t *testing.T) {
		repo := newTestMemoryRepo(t)
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedding service down")
		}

		m, err := NewManager(repo, embedder, WithWindowSize(1))
		require.NoError(t, err)

		_, err = m.Store(ctx, messages("a", "b"))
		require.Error(t, err)

		ids, err := repo.AllMemoryRecordIDs(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
