package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_AddAndGet(t *testing.T) {
	memoryRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	records := []*core.MemoryRecord{
		{
			Role:      core.RoleHuman,
			Contents:  "What is the Eiffel Tower?",
			Timestamp: now.Add(-2 * time.Minute),
			Metadata:  map[string]string{"thread": "rag-chat-1"},
		},
		{
			Role:      core.RoleAI,
			Contents:  "The Eiffel Tower is a landmark in Paris.",
			Timestamp: now.Add(-time.Minute),
		},
	}

	added, err := memoryRepo.AddMemoryRecords(ctx, records...)
	require.NoError(t, err)
	require.Len(t, added, 2)

	for _, record := range added {
		assert.NotZero(t, record.Id)
		assert.False(t, record.InsertedAt.IsZero())
	}
	assert.NotEqual(t, added[0].Id, added[1].Id)

	got, err := memoryRepo.GetMemoryRecords(ctx, added[0].Id, added[1].Id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "What is the Eiffel Tower?", got[0].Contents)
	assert.Equal(t, core.RoleHuman, got[0].Role)
	assert.Equal(t, "rag-chat-1", got[0].Metadata["thread"])
	assert.True(t, got[0].Timestamp.Equal(now.Add(-2*time.Minute)))
}

func TestMemoryRepository_GetMissingRecords(t *testing.T) {
	memoryRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	got, err := memoryRepo.GetMemoryRecords(ctx, core.ID(12345))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryRepository_Update(t *testing.T) {
	memoryRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	added, err := memoryRepo.AddMemoryRecords(ctx, &core.MemoryRecord{
		Role:      core.RoleHuman,
		Contents:  "original",
		Timestamp: now,
	})
	require.NoError(t, err)

	record := added[0]
	record.Vector = []float32{0.1, 0.2, 0.3}
	_, err = memoryRepo.UpdateMemoryRecords(ctx, record)
	require.NoError(t, err)

	got, err := memoryRepo.GetMemoryRecords(ctx, record.Id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got[0].Vector)

	t.Run("missing record", func(t *testing.T) {
		_, err := memoryRepo.UpdateMemoryRecords(ctx, &core.MemoryRecord{
			Id:        core.ID(99999),
			Role:      core.RoleHuman,
			Contents:  "ghost",
			Timestamp: now,
		})
		assert.Error(t, err)
	})
}

func TestMemoryRepository_GetRecent(t *testing.T) {
	memoryRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	for i := 0; i < 5; i++ {
		_, err := memoryRepo.AddMemoryRecords(ctx, &core.MemoryRecord{
			Role:      core.RoleHuman,
			Contents:  string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	recent, err := memoryRepo.GetRecentMemoryRecords(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Most recent first
	assert.Equal(t, "e", recent[0].Contents)
	assert.Equal(t, "d", recent[1].Contents)
	assert.Equal(t, "c", recent[2].Contents)

	t.Run("invalid limit", func(t *testing.T) {
		_, err := memoryRepo.GetRecentMemoryRecords(ctx, 0)
		assert.Error(t, err)
	})
}

func TestMemoryRepository_AllMemoryRecordIDs(t *testing.T) {
	memoryRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC()

	added, err := memoryRepo.AddMemoryRecords(ctx,
		&core.MemoryRecord{Role: core.RoleHuman, Contents: "one", Timestamp: now},
		&core.MemoryRecord{Role: core.RoleAI, Contents: "two", Timestamp: now},
	)
	require.NoError(t, err)

	ids, err := memoryRepo.AllMemoryRecordIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Contains(t, ids, added[0].Id)
	assert.Contains(t, ids, added[1].Id)
	assert.Less(t, ids[0], ids[1])
}

func TestMemoryRepository_FindSimilar(t *testing.T) {
	memoryRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC()

	records := []*core.MemoryRecord{
		{Role: core.RoleHuman, Contents: "about ai", Timestamp: now, Vector: []float32{0.9, 0.1, 0.0}},
		{Role: core.RoleHuman, Contents: "about ml", Timestamp: now, Vector: []float32{0.8, 0.2, 0.0}},
		{Role: core.RoleHuman, Contents: "about cooking", Timestamp: now, Vector: []float32{0.0, 0.1, 0.9}},
		{Role: core.RoleHuman, Contents: "not embedded yet", Timestamp: now},
	}
	_, err = memoryRepo.AddMemoryRecords(ctx, records...)
	require.NoError(t, err)

	matches, err := memoryRepo.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "about ai", matches[0].Record.Contents)
	assert.Equal(t, "about ml", matches[1].Record.Contents)
	assert.Greater(t, matches[0].Score, matches[1].Score)

	t.Run("limit applies", func(t *testing.T) {
		matches, err := memoryRepo.FindSimilar(ctx, []float32{1, 0, 0}, 0.0, 1)
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("no matches above threshold", func(t *testing.T) {
		matches, err := memoryRepo.FindSimilar(ctx, []float32{0, 1, 0}, 0.99, 10)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}
