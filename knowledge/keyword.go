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
	"math"
	"sort"
	"sync"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/storage"
)

const (
	// BM25 term frequency saturation parameter
	bm25K1 = 1.2

	// BM25 document length normalization parameter
	bm25B = 0.75
)

// indexedChunk is a knowledge base chunk prepared for keyword scoring.
type indexedChunk struct {
	source    string
	contents  string
	termFreqs map[string]int
	length    int
}

// KeywordRetriever retrieves knowledge base chunks by BM25 keyword relevance.
// It implements retrieval.Retriever.
//
// The index is held in memory and built from the chunk repository. Call
// Refresh after the knowledge base changes.
type KeywordRetriever struct {
	chunkRepository storage.ChunkRepository
	logger          *slog.Logger

	mu        sync.RWMutex
	docs      []indexedChunk
	docFreqs  map[string]int
	avgDocLen float64
}

// KeywordOption configures a KeywordRetriever.
type KeywordOption func(*KeywordRetriever) error

// WithKeywordLogger sets a custom logger.
// Default is slog.Default().
func WithKeywordLogger(logger *slog.Logger) KeywordOption {
	return func(r *KeywordRetriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewKeywordRetriever creates a BM25 retriever and builds its index from the
// chunk repository.
func NewKeywordRetriever(ctx context.Context, chunkRepository storage.ChunkRepository, opts ...KeywordOption) (*KeywordRetriever, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}

	r := &KeywordRetriever{
		chunkRepository: chunkRepository,
		logger:          slog.Default().With("component", "knowledge-keyword"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

// Refresh rebuilds the in-memory index from the chunk repository.
func (r *KeywordRetriever) Refresh(ctx context.Context) error {
	chunks, err := r.chunkRepository.AllChunks(ctx)
	if err != nil {
		return err
	}

	docs := make([]indexedChunk, 0, len(chunks))
	docFreqs := make(map[string]int)
	totalLen := 0

	for _, chunk := range chunks {
		terms := tokenize(chunk.Contents)
		termFreqs := make(map[string]int, len(terms))
		for _, term := range terms {
			termFreqs[term]++
		}
		for term := range termFreqs {
			docFreqs[term]++
		}
		totalLen += len(terms)
		docs = append(docs, indexedChunk{
			source:    chunk.Source,
			contents:  chunk.Contents,
			termFreqs: termFreqs,
			length:    len(terms),
		})
	}

	avgDocLen := 0.0
	if len(docs) > 0 {
		avgDocLen = float64(totalLen) / float64(len(docs))
	}

	r.mu.Lock()
	r.docs = docs
	r.docFreqs = docFreqs
	r.avgDocLen = avgDocLen
	r.mu.Unlock()

	r.logger.Debug("keyword index rebuilt", "chunks", len(docs), "terms", len(docFreqs))
	return nil
}

// Retrieve returns the k chunks with the highest BM25 score for the query,
// best first. Chunks that share no terms with the query are not returned.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, k int) ([]*core.Document, error) {
	if k < 1 {
		return nil, retrieval.ErrInvalidDepth
	}

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return []*core.Document{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		doc   *indexedChunk
		score float64
	}

	results := make([]scored, 0, len(r.docs))
	for i := range r.docs {
		doc := &r.docs[i]
		score := r.scoreLocked(doc, queryTerms)
		if score > 0 {
			results = append(results, scored{doc: doc, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > k {
		results = results[:k]
	}

	docs := make([]*core.Document, 0, len(results))
	for _, res := range results {
		docs = append(docs, &core.Document{
			Content: res.doc.contents,
			Metadata: map[string]string{
				"source": res.doc.source,
			},
		})
	}

	r.logger.Debug("keyword retrieval complete", "query", query, "matches", len(docs))
	return docs, nil
}

// scoreLocked computes the BM25 score of a single chunk.
// Caller must hold at least a read lock.
func (r *KeywordRetriever) scoreLocked(doc *indexedChunk, queryTerms []string) float64 {
	n := float64(len(r.docs))
	score := 0.0

	for _, term := range queryTerms {
		tf := float64(doc.termFreqs[term])
		if tf == 0 {
			continue
		}
		df := float64(r.docFreqs[term])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))

		norm := 1 - bm25B + bm25B*float64(doc.length)/r.avgDocLen
		score += idf * tf * (bm25K1 + 1) / (tf + bm25K1*norm)
	}

	return score
}
