package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/core"
)

const (
	// DefaultDepth is the default per-sub-query result bound.
	DefaultDepth = 5
	// DefaultRRFConstant is the default rank-dampening constant.
	DefaultRRFConstant = 60
	// DefaultTopN is the default size of the final fused list.
	DefaultTopN = 5
)

// Engine issues a retriever against each of several sub-queries and fuses
// the per-query ranked lists into one deduplicated list via reciprocal rank
// fusion. A document's fused score is the sum over every list it appears in
// of 1/(rrfK + rank), zero-based ranks, so documents surfacing for several
// sub-queries rank above single-hit documents.
//
// An Engine holds no per-call state and is safe for concurrent use.
type Engine struct {
	retriever Retriever
	depth     int
	rrfK      int
	topN      int
	pool      *ants.Pool
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithDepth sets the result bound requested per sub-query retrieval call.
// Default is DefaultDepth.
func WithDepth(depth int) EngineOption {
	return func(e *Engine) error {
		if depth < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
		}
		e.depth = depth
		return nil
	}
}

// WithRRFConstant sets the rank-dampening constant. It must be at least 1
// so a rank-0 hit cannot produce an unstable score. Default is
// DefaultRRFConstant.
func WithRRFConstant(rrfK int) EngineOption {
	return func(e *Engine) error {
		if rrfK < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidRRFConstant, rrfK)
		}
		e.rrfK = rrfK
		return nil
	}
}

// WithTopN sets the size of the final fused list. Default is DefaultTopN.
func WithTopN(topN int) EngineOption {
	return func(e *Engine) error {
		if topN < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidTopN, topN)
		}
		e.topN = topN
		return nil
	}
}

// WithPoolSize sets the worker pool size bounding concurrent sub-query
// retrieval calls. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) EngineOption {
	return func(e *Engine) error {
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

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a fusion engine over the given top-level retriever.
// Configuration is validated here; Fuse never fails on configuration.
func NewEngine(retriever Retriever, opts ...EngineOption) (*Engine, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		retriever: retriever,
		depth:     DefaultDepth,
		rrfK:      DefaultRRFConstant,
		topN:      DefaultTopN,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	return e, nil
}

// Fuse retrieves documents for each sub-query and fuses the results.
// An empty sub-query list falls back to the original question as the sole
// sub-query. A failed sub-query retrieval contributes nothing; the call
// errors only when every sub-query retrieval failed.
func (e *Engine) Fuse(ctx context.Context, question string, subQueries []string) ([]*core.Document, error) {
	return e.FuseWithMonitor(ctx, question, subQueries, nil)
}

// FuseWithMonitor is Fuse with per-stage observation hooks.
// Monitor callbacks fire in sub-query order, not completion order.
func (e *Engine) FuseWithMonitor(ctx context.Context, question string, subQueries []string, monitor FusionMonitor) ([]*core.Document, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if len(subQueries) == 0 {
		subQueries = []string{question}
	}
	monitor.Start(question, subQueries)

	// Retrieval calls are independent and run in parallel; results land in
	// a slice indexed by sub-query position so the scoring pass below is
	// deterministic regardless of completion order.
	lists := make([][]*core.Document, len(subQueries))
	failures := make([]error, len(subQueries))

	var wg sync.WaitGroup
	for i := range subQueries {
		i := i
		wg.Add(1)
		if err := e.pool.Submit(func() {
			defer wg.Done()
			docs, err := e.retriever.Retrieve(ctx, subQueries[i], e.depth)
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
			e.logger.Warn("sub-query retrieval failed, omitting its contribution",
				"subQuery", subQueries[i], "err", err)
			monitor.RetrieveFailed(subQueries[i], err)
		}
	}
	if failed == len(subQueries) {
		return nil, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(failures...))
	}

	// Score accumulators keyed by content ID, built per call and discarded
	// after sorting. The first document instance seen for a given content
	// is the representative kept in the output.
	arena := make(map[core.ID]*fusionScore)
	entries := make([]*fusionScore, 0)

	for i, list := range lists {
		if failures[i] != nil {
			continue
		}
		monitor.AfterRetrieve(subQueries[i], list)
		for rank, doc := range list {
			id := doc.ContentID()
			acc, ok := arena[id]
			if !ok {
				acc = &fusionScore{doc: doc}
				arena[id] = acc
				entries = append(entries, acc)
			}
			acc.score += 1.0 / float64(e.rrfK+rank)
		}
	}

	// entries is in first-seen order; a stable sort preserves it for ties.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	if len(entries) > e.topN {
		entries = entries[:e.topN]
	}

	fused := make([]*core.Document, len(entries))
	for i, acc := range entries {
		fused[i] = acc.doc
	}
	monitor.Finish(fused)

	return fused, nil
}

// fusionScore accumulates the running RRF score for one document content,
// retaining the first instance seen as the representative.
type fusionScore struct {
	doc   *core.Document
	score float64
}

// Release releases the worker pool.
// The engine should not be used after calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
