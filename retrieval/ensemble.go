package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/core"
)

// Ensemble merges results from a fixed set of weighted retrievers for a
// single query into one ranked list. Each document's combined score is the
// sum, over every source list it appears in, of weight/(rank+1) with
// zero-based ranks. Ties are broken by the order in which a document was
// first encountered across the source lists, iterated in source order.
//
// An Ensemble implements Retriever, so ensembles can be nested.
type Ensemble struct {
	sources []WeightedRetriever
	pool    *ants.Pool
	logger  *slog.Logger
}

var _ Retriever = (*Ensemble)(nil)

// EnsembleOption configures an Ensemble.
type EnsembleOption func(*Ensemble) error

// WithEnsemblePoolSize sets the worker pool size for concurrent source
// retrieval. Default is the number of sources.
func WithEnsemblePoolSize(size int) EnsembleOption {
	return func(e *Ensemble) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithEnsembleLogger sets a custom logger.
// Default is slog.Default().
func WithEnsembleLogger(logger *slog.Logger) EnsembleOption {
	return func(e *Ensemble) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEnsemble creates an ensemble over the given weighted sources.
// The source set and weights are fixed for the lifetime of the ensemble;
// an empty source set or a negative weight is rejected here, not per call.
func NewEnsemble(sources []WeightedRetriever, opts ...EnsembleOption) (*Ensemble, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	for i, source := range sources {
		if source.Retriever == nil {
			return nil, fmt.Errorf("%w: source %d", ErrRetrieverRequired, i)
		}
		if source.Weight < 0 {
			return nil, fmt.Errorf("%w: source %d has weight %v", ErrNegativeWeight, i, source.Weight)
		}
	}

	pool, err := ants.NewPool(len(sources))
	if err != nil {
		return nil, err
	}

	e := &Ensemble{
		sources: append([]WeightedRetriever(nil), sources...),
		pool:    pool,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	return e, nil
}

// Retrieve invokes every source with (query, k) concurrently, then combines
// the ranked lists with weighted reciprocal-rank scoring. A source that
// fails or returns nothing contributes nothing; the call errors only when
// every source failed.
func (e *Ensemble) Retrieve(ctx context.Context, query string, k int) ([]*core.Document, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidDepth, k)
	}

	// Join results into a slice indexed by source position so scoring is
	// independent of completion order.
	lists := make([][]*core.Document, len(e.sources))
	failures := make([]error, len(e.sources))

	var wg sync.WaitGroup
	for i := range e.sources {
		i := i
		wg.Add(1)
		if err := e.pool.Submit(func() {
			defer wg.Done()
			docs, err := e.sources[i].Retriever.Retrieve(ctx, query, k)
			if err != nil {
				failures[i] = err
				return
			}
			lists[i] = docs
		}); err != nil {
			wg.Done()
			failures[i] = err
		}
	}
	wg.Wait()

	failed := 0
	for i, err := range failures {
		if err != nil {
			failed++
			e.logger.Warn("retriever failed, omitting its contribution",
				"source", i, "query", query, "err", err)
		}
	}
	if failed == len(e.sources) {
		return nil, fmt.Errorf("%w: %w", ErrAllRetrieversFailed, errors.Join(failures...))
	}

	fused := combineWeighted(e.sources, lists)
	if len(fused) > k {
		fused = fused[:k]
	}
	return fused, nil
}

// combineWeighted scores the joined lists in source order and returns the
// unique documents sorted by descending combined score, ties by first-seen
// order.
func combineWeighted(sources []WeightedRetriever, lists [][]*core.Document) []*core.Document {
	type accumulator struct {
		doc   *core.Document
		score float64
	}

	arena := make(map[core.ID]*accumulator)
	entries := make([]*accumulator, 0)

	for i, list := range lists {
		weight := sources[i].Weight
		for rank, doc := range list {
			id := doc.ContentID()
			acc, ok := arena[id]
			if !ok {
				acc = &accumulator{doc: doc}
				arena[id] = acc
				entries = append(entries, acc)
			}
			acc.score += weight / float64(rank+1)
		}
	}

	// entries is in first-seen order; a stable sort preserves it for ties.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	fused := make([]*core.Document, len(entries))
	for i, acc := range entries {
		fused[i] = acc.doc
	}
	return fused
}

// Release releases the worker pool.
// The ensemble should not be used after calling Release.
func (e *Ensemble) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
