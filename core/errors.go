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

import "errors"

// Domain validation errors
var (
	// ErrInvalidMemoryRecord indicates a MemoryRecord failed validation.
	ErrInvalidMemoryRecord = errors.New("invalid memory record")

	// ErrInvalidKnowledgeChunk indicates a KnowledgeChunk failed validation.
	ErrInvalidKnowledgeChunk = errors.New("invalid knowledge chunk")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrEmptyContent indicates the Contents field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidMessageRole indicates an invalid MessageRole value.
	ErrInvalidMessageRole = errors.New("invalid message role")

	// ErrEmptyChunkSource indicates the chunk Source field is empty.
	ErrEmptyChunkSource = errors.New("chunk source cannot be empty")
)
