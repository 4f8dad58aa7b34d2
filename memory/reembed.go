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


package memory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/storage"
)

// ReembedConfig holds configuration for the reembedding operation.
type ReembedConfig struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultReembedConfig returns a ReembedConfig with sensible defaults.
func DefaultReembedConfig() *ReembedConfig {
	return &ReembedConfig{
		BatchSize:  100,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// Reembedder regenerates embeddings for all stored memory records,
// typically after switching to a different embedding model.
type Reembedder struct {
	memoryRepository storage.MemoryRepository
	embedder         ai.Embedder
	config           *ReembedConfig
}

// NewReembedder creates a reembedder for the memory repository.
func NewReembedder(memoryRepository storage.MemoryRepository, embedder ai.Embedder, config *ReembedConfig) (*Reembedder, error) {
	if memoryRepository == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultReembedConfig()
	}
	if config.BatchSize < 1 {
		config.BatchSize = DefaultReembedConfig().BatchSize
	}

	return &Reembedder{
		memoryRepository: memoryRepository,
		embedder:         embedder,
		config:           config,
	}, nil
}

// Run reembeds every memory record in batches, with retry on embedding
// failures. Returns the number of records reembedded.
func (r *Reembedder) Run(ctx context.Context) (int, error) {
	ids, err := r.memoryRepository.AllMemoryRecordIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list memory records: %w", err)
	}

	processed := 0
	for start := 0; start < len(ids); start += r.config.BatchSize {
		select {
		case <-ctx.Done():
			return processed, ctx.Err()
		default:
		}

		end := start + r.config.BatchSize
		if end > len(ids) {
			end = len(ids)
		}

		records, err := r.memoryRepository.GetMemoryRecords(ctx, ids[start:end]...)
		if err != nil {
			return processed, fmt.Errorf("failed to fetch batch: %w", err)
		}
		if len(records) == 0 {
			continue
		}

		texts := make([]string, len(records))
		for i, record := range records {
			texts[i] = record.Contents
		}

		var vectors [][]float32
		err = retryWithBackoff(ctx, func() error {
			var err error
			vectors, err = r.embedder.EmbedTexts(ctx, texts)
			return err
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return processed, fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
		}

		if len(vectors) != len(records) {
			return processed, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(vectors))
		}

		for i := range records {
			records[i].Vector = normalizeVector(vectors[i])
		}

		if _, err := r.memoryRepository.UpdateMemoryRecords(ctx, records...); err != nil {
			return processed, fmt.Errorf("failed to update records: %w", err)
		}

		processed += len(records)
	}

	return processed, nil
}

// normalizeVector scales a vector to unit length so dot products equal
// cosine similarity. Zero vectors are returned unchanged.
func normalizeVector(vector []float32) []float32 {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vector
	}

	norm := float32(1.0 / math.Sqrt(sumSquares))
	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = v * norm
	}
	return normalized
}
