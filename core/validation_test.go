package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMemoryRecord(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid record", func(t *testing.T) {
		record := &MemoryRecord{
			Role:      RoleHuman,
			Contents:  "What is the Eiffel Tower?",
			Timestamp: now,
		}
		assert.NoError(t, ValidateMemoryRecord(record))
	})

	t.Run("nil record", func(t *testing.T) {
		err := ValidateMemoryRecord(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMemoryRecord)
	})

	t.Run("empty contents", func(t *testing.T) {
		record := &MemoryRecord{
			Role:      RoleHuman,
			Timestamp: now,
		}
		err := ValidateMemoryRecord(record)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMemoryRecord)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("invalid role", func(t *testing.T) {
		record := &MemoryRecord{
			Role:      MessageRole(42),
			Contents:  "hello",
			Timestamp: now,
		}
		err := ValidateMemoryRecord(record)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMessageRole)
	})

	t.Run("future timestamp", func(t *testing.T) {
		record := &MemoryRecord{
			Role:      RoleAI,
			Contents:  "hello",
			Timestamp: now.Add(time.Hour),
		}
		err := ValidateMemoryRecord(record)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})

	t.Run("empty vector is allowed", func(t *testing.T) {
		record := &MemoryRecord{
			Role:      RoleAI,
			Contents:  "hello",
			Timestamp: now,
			Vector:    nil,
		}
		assert.NoError(t, ValidateMemoryRecord(record))
	})
}

func TestValidateKnowledgeChunk(t *testing.T) {
	t.Run("valid chunk", func(t *testing.T) {
		chunk := &KnowledgeChunk{
			Source:   "kb/paris.txt",
			Contents: "Paris is the capital of France.",
		}
		assert.NoError(t, ValidateKnowledgeChunk(chunk))
	})

	t.Run("nil chunk", func(t *testing.T) {
		err := ValidateKnowledgeChunk(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidKnowledgeChunk)
	})

	t.Run("empty contents", func(t *testing.T) {
		chunk := &KnowledgeChunk{Source: "kb/paris.txt"}
		err := ValidateKnowledgeChunk(chunk)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("empty source", func(t *testing.T) {
		chunk := &KnowledgeChunk{Contents: "some text"}
		err := ValidateKnowledgeChunk(chunk)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyChunkSource)
	})
}

func TestValidateMessageRole(t *testing.T) {
	assert.NoError(t, ValidateMessageRole(RoleHuman))
	assert.NoError(t, ValidateMessageRole(RoleAI))
	assert.ErrorIs(t, ValidateMessageRole(MessageRole(0)), ErrInvalidMessageRole)
	assert.ErrorIs(t, ValidateMessageRole(MessageRole(3)), ErrInvalidMessageRole)
}

func TestIsValidTimestamp(t *testing.T) {
	assert.True(t, IsValidTimestamp(time.Now().Add(-time.Minute)))
	assert.False(t, IsValidTimestamp(time.Now().Add(time.Minute)))
}
