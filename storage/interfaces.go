package storage

import (
	"context"

	"github.com/poiesic/recall/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// MemoryRepository provides operations for long-term memory records.
type MemoryRepository interface {
	Repository

	// AddMemoryRecords adds one or more memory records to storage.
	// Generates new IDs from a sequence and sets InsertedAt timestamps.
	// Returns the records with IDs and timestamps populated.
	AddMemoryRecords(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error)

	// UpdateMemoryRecords updates existing memory records.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateMemoryRecords(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error)

	// GetMemoryRecords retrieves multiple memory records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetMemoryRecords(ctx context.Context, ids ...core.ID) ([]*core.MemoryRecord, error)

	// GetRecentMemoryRecords retrieves the N most recent memory records,
	// ordered by timestamp descending.
	GetRecentMemoryRecords(ctx context.Context, limit int) ([]*core.MemoryRecord, error)

	// AllMemoryRecordIDs returns the IDs of all stored memory records in
	// ascending ID order. Used for batch maintenance like re-embedding.
	AllMemoryRecordIDs(ctx context.Context) ([]core.ID, error)

	// FindSimilar finds memory records similar to the given vector.
	// Returns records with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.MemoryMatch, error)
}

// ChunkRepository provides operations for knowledge-base chunks.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more knowledge chunks to storage.
	// Chunk IDs are content-based, so re-adding an identical chunk
	// overwrites rather than duplicates.
	AddChunks(ctx context.Context, chunks ...*core.KnowledgeChunk) ([]*core.KnowledgeChunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.KnowledgeChunk, error)

	// AllChunks returns every stored chunk. Used to build in-memory
	// keyword indexes at startup.
	AllChunks(ctx context.Context) ([]*core.KnowledgeChunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// DeleteAllChunks removes every stored chunk. Used for reindexing.
	DeleteAllChunks(ctx context.Context) error

	// FindSimilar finds chunks similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ChunkMatch, error)
}
