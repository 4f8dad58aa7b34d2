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


package storage

import (
	"github.com/poiesic/recall/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalMemoryRecord serializes a MemoryRecord to bytes.
func MarshalMemoryRecord(record *core.MemoryRecord) []byte {
	buf := make([]byte, core.MemoryRecordMUS.Size(*record))
	core.MemoryRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalMemoryRecord deserializes a MemoryRecord from bytes.
func UnmarshalMemoryRecord(data []byte) (*core.MemoryRecord, error) {
	record, _, err := core.MemoryRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalKnowledgeChunk serializes a KnowledgeChunk to bytes.
func MarshalKnowledgeChunk(chunk *core.KnowledgeChunk) []byte {
	buf := make([]byte, core.KnowledgeChunkMUS.Size(*chunk))
	core.KnowledgeChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalKnowledgeChunk deserializes a KnowledgeChunk from bytes.
func UnmarshalKnowledgeChunk(data []byte) (*core.KnowledgeChunk, error) {
	chunk, _, err := core.KnowledgeChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}
