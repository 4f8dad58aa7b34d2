// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// ValidateMemoryRecord validates a MemoryRecord according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - Role must be valid (Human or AI)
//   - Timestamp must not be in the future
//
// NOT validated:
//   - Vector (can be empty until embedded)
//   - ID (0 is valid; IDs are assigned at store time)
func ValidateMemoryRecord(record *MemoryRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidMemoryRecord)
	}

	if record.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryRecord, ErrEmptyContent)
	}

	if err := ValidateMessageRole(record.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryRecord, err)
	}

	if !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryRecord, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateKnowledgeChunk validates a KnowledgeChunk according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - Source must not be empty
//
// NOT validated:
//   - Vector (can be empty until embedded)
//   - ID (assigned from content at index time)
func ValidateKnowledgeChunk(chunk *KnowledgeChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidKnowledgeChunk)
	}

	if chunk.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeChunk, ErrEmptyContent)
	}

	if chunk.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeChunk, ErrEmptyChunkSource)
	}

	return nil
}

// ValidateMessageRole validates that a MessageRole has a valid value.
func ValidateMessageRole(role MessageRole) error {
	if role != RoleHuman && role != RoleAI {
		return fmt.Errorf("%w: value %d", ErrInvalidMessageRole, role)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
