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


package knowledge

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the default maximum chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the default overlap between adjacent chunks.
	DefaultChunkOverlap = 200
)

// Loader reads knowledge base documents from disk, splits them into chunks,
// embeds the chunks, and persists them to the chunk repository.
type Loader struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	chunkSize       int
	chunkOverlap    int
	logger          *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithChunkSize sets the maximum chunk length in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) LoaderOption {
	return func(l *Loader) error {
		if size < 1 {
			return ErrInvalidChunkSize
		}
		l.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets the overlap between adjacent chunks.
// Default is DefaultChunkOverlap.
func WithChunkOverlap(overlap int) LoaderOption {
	return func(l *Loader) error {
		if overlap < 0 {
			return ErrInvalidChunkOverlap
		}
		l.chunkOverlap = overlap
		return nil
	}
}

// WithLoaderLogger sets a custom logger.
// Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a knowledge base loader.
func NewLoader(chunkRepository storage.ChunkRepository, embedder ai.Embedder, opts ...LoaderOption) (*Loader, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	l := &Loader{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		chunkSize:       DefaultChunkSize,
		chunkOverlap:    DefaultChunkOverlap,
		logger:          slog.Default().With("component", "knowledge-loader"),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if l.chunkOverlap >= l.chunkSize {
		return nil, ErrInvalidChunkOverlap
	}

	return l, nil
}

// Index loads all .txt documents from dir into the chunk repository.
//
// When the repository already holds chunks and force is false, indexing is
// skipped. When force is true, existing chunks are dropped and the knowledge
// base is rebuilt from scratch.
//
// A missing directory is not an error: the knowledge base is simply left
// empty. Unreadable files are logged and skipped.
//
// Returns the number of chunks persisted.
func (l *Loader) Index(ctx context.Context, dir string, force bool) (int, error) {
	count, err := l.chunkRepository.CountChunks(ctx)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		if !force {
			l.logger.Debug("knowledge base already indexed, skipping", "chunks", count)
			return 0, nil
		}
		l.logger.Info("reindexing knowledge base", "droppedChunks", count)
		if err := l.chunkRepository.DeleteAllChunks(ctx); err != nil {
			return 0, err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("knowledge base directory does not exist, starting empty", "dir", dir)
			return 0, nil
		}
		return 0, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(l.chunkSize),
		textsplitter.WithChunkOverlap(l.chunkOverlap),
	)

	var chunks []*core.KnowledgeChunk
	for _, name := range files {
		path := filepath.Join(dir, name)
		contents, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable knowledge base file", "file", path, "err", err)
			continue
		}

		pieces, err := splitter.SplitText(string(contents))
		if err != nil {
			l.logger.Warn("skipping unsplittable knowledge base file", "file", path, "err", err)
			continue
		}

		for _, piece := range pieces {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			chunks = append(chunks, &core.KnowledgeChunk{
				Source:   name,
				Contents: piece,
			})
		}
	}

	if len(chunks) == 0 {
		l.logger.Info("no knowledge base content found", "dir", dir)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Contents
	}

	vectors, err := l.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, err
	}
	for i := range chunks {
		if i < len(vectors) {
			chunks[i].Vector = vectors[i]
		}
	}

	added, err := l.chunkRepository.AddChunks(ctx, chunks...)
	if err != nil {
		return 0, err
	}

	l.logger.Info("indexed knowledge base", "files", len(files), "chunks", len(added))
	return len(added), nil
}
