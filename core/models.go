package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs, which is what
// makes content-level deduplication work during fusion.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MessageRole identifies the source of a conversation message.
type MessageRole int

const (
	// RoleHuman represents a human user.
	RoleHuman MessageRole = iota + 1
	// RoleAI represents an AI assistant.
	RoleAI
)

// String returns the lowercase name of the role.
func (r MessageRole) String() string {
	switch r {
	case RoleHuman:
		return "human"
	case RoleAI:
		return "ai"
	default:
		return "unknown"
	}
}

// Message is a single conversation turn held in short-term history.
// Messages are transient; turns that age out of the history window are
// persisted as MemoryRecords.
type Message struct {
	Role    MessageRole
	Content string
}

// Document is an immutable unit of retrieved text.
// Two documents with identical Content are the same document regardless of
// source or metadata; equality is exact and byte-for-byte. Metadata is
// carried through retrieval but never inspected by the fusion logic.
type Document struct {
	Content  string
	Metadata map[string]string
}

// ContentID returns the content-based identity key for the document.
func (d *Document) ContentID() ID {
	return IDFromContent(d.Content)
}

// MemoryRecord is a conversation turn persisted to long-term memory.
type MemoryRecord struct {
	Id         ID
	Role       MessageRole
	Contents   string
	Timestamp  time.Time // When the message was originally sent
	InsertedAt time.Time // When the record was inserted into the database
	UpdatedAt  time.Time // When the record was last updated
	Vector     []float32 // Embedding vector for semantic search
	Metadata   map[string]string
}

// KnowledgeChunk is a chunk of a knowledge-base source file, persisted with
// its embedding for dense retrieval.
type KnowledgeChunk struct {
	Id         ID
	Source     string // Path of the file the chunk was split from
	Contents   string
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// MemoryMatch is a memory record matched by vector similarity search.
type MemoryMatch struct {
	Record *MemoryRecord
	Score  float32
}

// ChunkMatch is a knowledge chunk matched by vector similarity search.
type ChunkMatch struct {
	Chunk *KnowledgeChunk
	Score float32
}
