package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryManager(t *testing.T, windowSize int) (*memory.Manager, storage.MemoryRepository) {
	t.Helper()

	memoryRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		memoryRepo.Close()
		backend.Close()
	})

	manager, err := memory.NewManager(memoryRepo, mock.NewMockEmbedder(), memory.WithWindowSize(windowSize))
	require.NoError(t, err)
	return manager, memoryRepo
}

func staticEngine(t *testing.T, results map[string][]*core.Document) *retrieval.Engine {
	t.Helper()

	engine, err := retrieval.NewEngine(retrieval.RetrieverFunc(
		func(ctx context.Context, query string, k int) ([]*core.Document, error) {
			return results[query], nil
		}))
	require.NoError(t, err)
	t.Cleanup(engine.Release)
	return engine
}

func TestNewPipeline(t *testing.T) {
	manager, _ := newTestMemoryManager(t, 10)
	engine := staticEngine(t, nil)

	t.Run("nil manager", func(t *testing.T) {
		_, err := NewPipeline(nil, engine, mock.NewMockQueryDecomposer(), mock.NewMockAnswerGenerator())
		assert.ErrorIs(t, err, ErrMemoryManagerRequired)
	})

	t.Run("nil engine", func(t *testing.T) {
		_, err := NewPipeline(manager, nil, mock.NewMockQueryDecomposer(), mock.NewMockAnswerGenerator())
		assert.ErrorIs(t, err, ErrEngineRequired)
	})

	t.Run("nil decomposer", func(t *testing.T) {
		_, err := NewPipeline(manager, engine, nil, mock.NewMockAnswerGenerator())
		assert.ErrorIs(t, err, ErrDecomposerRequired)
	})

	t.Run("nil generator", func(t *testing.T) {
		_, err := NewPipeline(manager, engine, mock.NewMockQueryDecomposer(), nil)
		assert.ErrorIs(t, err, ErrGeneratorRequired)
	})

	t.Run("valid", func(t *testing.T) {
		p, err := NewPipeline(manager, engine, mock.NewMockQueryDecomposer(), mock.NewMockAnswerGenerator())
		require.NoError(t, err)
		assert.NotNil(t, p)
	})
}

func TestPipelineAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("answers and records the turn", func(t *testing.T) {
		manager, _ := newTestMemoryManager(t, 10)
		engine := staticEngine(t, map[string][]*core.Document{
			"capital of France": {{Content: "Paris is the capital of France."}},
		})

		decomposer := mock.NewMockQueryDecomposer()
		decomposer.DecomposeFunc = func(ctx context.Context, question string) ([]string, error) {
			return []string{"capital of France"}, nil
		}

		var seenDocs []*core.Document
		var seenHistory []core.Message
		generator := mock.NewMockAnswerGenerator()
		generator.GenerateFunc = func(ctx context.Context, question string, docs []*core.Document, history []core.Message) (string, error) {
			seenDocs = docs
			seenHistory = history
			return "Paris", nil
		}

		p, err := NewPipeline(manager, engine, decomposer, generator)
		require.NoError(t, err)

		session := NewSession()
		answer, err := p.Ask(ctx, session, "What is the capital of France?")
		require.NoError(t, err)
		assert.Equal(t, "Paris", answer)

		require.Len(t, seenDocs, 1)
		assert.Equal(t, "Paris is the capital of France.", seenDocs[0].Content)
		assert.Empty(t, seenHistory)

		history := session.History()
		require.Len(t, history, 2)
		assert.Equal(t, core.RoleHuman, history[0].Role)
		assert.Equal(t, "What is the capital of France?", history[0].Content)
		assert.Equal(t, core.RoleAI, history[1].Role)
		assert.Equal(t, "Paris", history[1].Content)
	})

	t.Run("empty question", func(t *testing.T) {
		manager, _ := newTestMemoryManager(t, 10)
		p, err := NewPipeline(manager, staticEngine(t, nil),
			mock.NewMockQueryDecomposer(), mock.NewMockAnswerGenerator())
		require.NoError(t, err)

		_, err = p.Ask(ctx, NewSession(), "   ")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})

	t.Run("decomposition failure falls back to the question", func(t *testing.T) {
		manager, _ := newTestMemoryManager(t, 10)

		var queries []string
		engine, err := retrieval.NewEngine(retrieval.RetrieverFunc(
			func(ctx context.Context, query string, k int) ([]*core.Document, error) {
				queries = append(queries, query)
				return []*core.Document{{Content: "doc"}}, nil
			}), retrieval.WithPoolSize(1))
		require.NoError(t, err)
		defer engine.Release()

		decomposer := mock.NewMockQueryDecomposer()
		decomposer.DecomposeFunc = func(ctx context.Context, question string) ([]string, error) {
			return nil, errors.New("model unavailable")
		}

		p, err := NewPipeline(manager, engine, decomposer, mock.NewMockAnswerGenerator())
		require.NoError(t, err)

		answer, err := p.Ask(ctx, NewSession(), "original question")
		require.NoError(t, err)
		assert.NotEmpty(t, answer)
		assert.Equal(t, []string{"original question"}, queries)
	})

	t.Run("overflowing history is aged into memory", func(t *testing.T) {
		manager, memoryRepo := newTestMemoryManager(t, 2)

		p, err := NewPipeline(manager, staticEngine(t, nil),
			mock.NewMockQueryDecomposer(), mock.NewMockAnswerGenerator())
		require.NoError(t, err)

		session := NewSession()
		session.append(
			core.Message{Role: core.RoleHuman, Content: "old question"},
			core.Message{Role: core.RoleAI, Content: "old answer"},
			core.Message{Role: core.RoleHuman, Content: "newer question"},
			core.Message{Role: core.RoleAI, Content: "newer answer"},
		)

		_, err = p.Ask(ctx, session, "latest question")
		require.NoError(t, err)

		// Two oldest messages moved out of the window, turn appended after
		require.Len(t, session.History(), 4)
		assert.Equal(t, "newer question", session.History()[0].Content)

		ids, err := memoryRepo.AllMemoryRecordIDs(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("generation failure does not record the turn", func(t *testing.T) {
		manager, _ := newTestMemoryManager(t, 10)

		generator := mock.NewMockAnswerGenerator()
		generator.GenerateFunc = func(ctx context.Context, question string, docs []*core.Document, history []core.Message) (string, error) {
			return "", errors.New("generation failed")
		}

		p, err := NewPipeline(manager, staticEngine(t, nil),
			mock.NewMockQueryDecomposer(), generator)
		require.NoError(t, err)

		session := NewSession()
		_, err = p.Ask(ctx, session, "question")
		require.Error(t, err)
		assert.Zero(t, session.Len())
	})
}

type startFinishMonitor struct {
	started  bool
	finished bool
}

func (m *startFinishMonitor) Start(question string, subQueries []string) { m.started = true }

func (m *startFinishMonitor) AfterRetrieve(subQuery string, docs []*core.Document) {}

func (m *startFinishMonitor) RetrieveFailed(subQuery string, err error) {}

func (m *startFinishMonitor) Finish(fused []*core.Document) { m.finished = true }

func TestPipelineAskWithMonitor(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestMemoryManager(t, 10)

	p, err := NewPipeline(manager, staticEngine(t, nil),
		mock.NewMockQueryDecomposer(), mock.NewMockAnswerGenerator())
	require.NoError(t, err)

	monitor := &startFinishMonitor{}
	_, err = p.AskWithMonitor(ctx, NewSession(), "question", monitor)
	require.NoError(t, err)
	assert.True(t, monitor.started)
	assert.True(t, monitor.finished)
}
