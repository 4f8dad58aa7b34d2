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
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// DefaultWindowSize is the default number of recent messages kept in the
// active conversation window.
const DefaultWindowSize = 10

// Manager moves conversation history out of the active window into long-term
// memory. Messages that overflow the window are embedded and persisted; the
// remaining window is returned for the next turn.
type Manager struct {
	memoryRepository storage.MemoryRepository
	embedder         ai.Embedder
	windowSize       int
	logger           *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager) error

// WithWindowSize sets the number of recent messages kept in the window.
// Default is DefaultWindowSize.
func WithWindowSize(size int) ManagerOption {
	return func(m *Manager) error {
		if size < 1 {
			return ErrInvalidWindowSize
		}
		m.windowSize = size
		return nil
	}
}

// WithManagerLogger sets a custom logger.
// Default is slog.Default().
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a conversation memory manager.
func NewManager(memoryRepository storage.MemoryRepository, embedder ai.Embedder, opts ...ManagerOption) (*Manager, error) {
	if memoryRepository == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	m := &Manager{
		memoryRepository: memoryRepository,
		embedder:         embedder,
		windowSize:       DefaultWindowSize,
		logger:           slog.Default().With("component", "memory-manager"),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// WindowSize returns the configured window size.
func (m *Manager) WindowSize() int {
	return m.windowSize
}

// Store persists messages that overflow the window to long-term memory and
// returns the trimmed window. Overflowing messages are embedded in a single
// batch before being written. History within the window is returned
// unchanged.
func (m *Manager) Store(ctx context.Context, history []core.Message) ([]core.Message, error) {
	if len(history) <= m.windowSize {
		return history, nil
	}

	overflow := history[:len(history)-m.windowSize]
	window := history[len(history)-m.windowSize:]

	texts := make([]string, len(overflow))
	for i, msg := range overflow {
		texts[i] = msg.Content
	}

	vectors, err := m.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	// Stamp timestamps a microsecond apart so the recency index preserves
	// conversation order.
	base := time.Now().UTC().Truncate(time.Microsecond)
	records := make([]*core.MemoryRecord, len(overflow))
	for i, msg := range overflow {
		record := &core.MemoryRecord{
			Role:      msg.Role,
			Contents:  msg.Content,
			Timestamp: base.Add(time.Duration(i) * time.Microsecond),
		}
		if i < len(vectors) {
			record.Vector = vectors[i]
		}
		records[i] = record
	}

	if _, err := m.memoryRepository.AddMemoryRecords(ctx, records...); err != nil {
		return nil, err
	}

	m.logger.Debug("stored overflow to long-term memory",
		"stored", len(records), "window", len(window))
	return window, nil
}
