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


package recall

import (
	"context"
	"log/slog"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/chat"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/knowledge"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
)

const (
	// DefaultKnowledgeWeight is the default ensemble weight of the knowledge base.
	DefaultKnowledgeWeight = 0.7

	// DefaultMemoryWeight is the default ensemble weight of long-term memory.
	DefaultMemoryWeight = 0.3
)

// System wires storage, AI services, the retriever graph, and the chat
// pipeline into one assistant instance.
//
// The retriever graph fuses two sources: a hybrid keyword/vector ensemble
// over the knowledge base, and a similarity retriever over long-term
// conversation memory.
type System struct {
	backend       *badger.Backend
	memoryRepo    storage.MemoryRepository
	chunkRepo     storage.ChunkRepository
	provider      ai.AIProvider
	memoryManager *memory.Manager
	loader        *knowledge.Loader
	keyword       *knowledge.KeywordRetriever
	hybrid        *retrieval.Ensemble
	sources       *retrieval.Ensemble
	engine        *retrieval.Engine
	pipeline      *chat.Pipeline
	logger        *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig        *ai.Config
	provider        ai.AIProvider
	windowSize      int
	keywordWeight   float64
	vectorWeight    float64
	knowledgeWeight float64
	memoryWeight    float64
	memoryFloor     float32
	engineOpts      []retrieval.EngineOption
}

// WithAIConfig sets the AI service configuration used to build the default
// OpenAI-compatible provider. Ignored when WithProvider is given.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider instead of constructing one
// from the AI config. The system takes ownership and closes it on Close.
func WithProvider(provider ai.AIProvider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithWindowSize sets the short-term history window size.
// Default is memory.DefaultWindowSize.
func WithWindowSize(size int) SystemOption {
	return func(o *systemOptions) {
		o.windowSize = size
	}
}

// WithHybridWeights sets the keyword and vector weights inside the knowledge
// base ensemble. Defaults are knowledge.DefaultKeywordWeight and
// knowledge.DefaultVectorWeight.
func WithHybridWeights(keyword, vector float64) SystemOption {
	return func(o *systemOptions) {
		o.keywordWeight = keyword
		o.vectorWeight = vector
	}
}

// WithSourceWeights sets the knowledge base and memory weights in the outer
// ensemble. Defaults are DefaultKnowledgeWeight and DefaultMemoryWeight.
func WithSourceWeights(knowledgeWeight, memoryWeight float64) SystemOption {
	return func(o *systemOptions) {
		o.knowledgeWeight = knowledgeWeight
		o.memoryWeight = memoryWeight
	}
}

// WithMemoryMinSimilarity sets the similarity floor for memory recall.
// Default is memory.DefaultMinSimilarity.
func WithMemoryMinSimilarity(min float32) SystemOption {
	return func(o *systemOptions) {
		o.memoryFloor = min
	}
}

// WithEngineOptions passes options through to the fusion engine, such as
// retrieval.WithDepth, retrieval.WithRRFConstant, and retrieval.WithTopN.
func WithEngineOptions(opts ...retrieval.EngineOption) SystemOption {
	return func(o *systemOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// NewSystem opens the database at filePath and assembles the full assistant.
// An empty filePath opens an in-memory database, which is useful for tests.
func NewSystem(ctx context.Context, filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig:        ai.DefaultConfig(),
		windowSize:      memory.DefaultWindowSize,
		keywordWeight:   knowledge.DefaultKeywordWeight,
		vectorWeight:    knowledge.DefaultVectorWeight,
		knowledgeWeight: DefaultKnowledgeWeight,
		memoryWeight:    DefaultMemoryWeight,
		memoryFloor:     memory.DefaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	memoryRepo, err := badger.NewMemoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo := badger.NewChunkRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chunkRepo.Close()
			memoryRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	s := &System{
		backend:    backend,
		memoryRepo: memoryRepo,
		chunkRepo:  chunkRepo,
		provider:   provider,
		logger:     slog.Default().With("component", "system"),
	}

	if err := s.assemble(ctx, options); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// assemble builds the memory manager, retriever graph, and chat pipeline.
func (s *System) assemble(ctx context.Context, options *systemOptions) error {
	var err error

	s.memoryManager, err = memory.NewManager(s.memoryRepo, s.provider.Embedder(),
		memory.WithWindowSize(options.windowSize))
	if err != nil {
		return err
	}

	s.loader, err = knowledge.NewLoader(s.chunkRepo, s.provider.Embedder())
	if err != nil {
		return err
	}

	s.keyword, err = knowledge.NewKeywordRetriever(ctx, s.chunkRepo)
	if err != nil {
		return err
	}

	vector, err := knowledge.NewVectorRetriever(s.chunkRepo, s.provider.Embedder())
	if err != nil {
		return err
	}

	s.hybrid, err = knowledge.NewHybridRetriever(s.keyword, vector,
		knowledge.WithKeywordWeight(options.keywordWeight),
		knowledge.WithVectorWeight(options.vectorWeight))
	if err != nil {
		return err
	}

	memoryRetriever, err := memory.NewRetriever(s.memoryRepo, s.provider.Embedder(),
		memory.WithRetrieverMinSimilarity(options.memoryFloor))
	if err != nil {
		return err
	}

	s.sources, err = retrieval.NewEnsemble([]retrieval.WeightedRetriever{
		{Retriever: s.hybrid, Weight: options.knowledgeWeight},
		{Retriever: memoryRetriever, Weight: options.memoryWeight},
	})
	if err != nil {
		return err
	}

	s.engine, err = retrieval.NewEngine(s.sources, options.engineOpts...)
	if err != nil {
		return err
	}

	s.pipeline, err = chat.NewPipeline(s.memoryManager, s.engine,
		s.provider.QueryDecomposer(), s.provider.AnswerGenerator())
	return err
}

// IndexKnowledgeBase loads the knowledge base directory into the chunk
// repository and refreshes the keyword index. When force is true the
// knowledge base is rebuilt even if chunks already exist.
// Returns the number of chunks persisted.
func (s *System) IndexKnowledgeBase(ctx context.Context, dir string, force bool) (int, error) {
	count, err := s.loader.Index(ctx, dir, force)
	if err != nil {
		return 0, err
	}
	if err := s.keyword.Refresh(ctx); err != nil {
		return count, err
	}
	return count, nil
}

// NewSession creates an empty conversation session.
func (s *System) NewSession() *chat.Session {
	return chat.NewSession()
}

// Ask answers the question within the session and records the turn.
func (s *System) Ask(ctx context.Context, session *chat.Session, question string) (string, error) {
	return s.pipeline.Ask(ctx, session, question)
}

// AskWithMonitor is Ask with per-stage observation hooks on the fusion run.
func (s *System) AskWithMonitor(ctx context.Context, session *chat.Session, question string, monitor retrieval.FusionMonitor) (string, error) {
	return s.pipeline.AskWithMonitor(ctx, session, question, monitor)
}

// Search runs the retriever graph directly, decomposing the query first,
// and returns the fused documents without generating an answer.
func (s *System) Search(ctx context.Context, query string) ([]*core.Document, error) {
	subQueries, err := s.provider.QueryDecomposer().Decompose(ctx, query)
	if err != nil || len(subQueries) == 0 {
		s.logger.Warn("query decomposition failed, using query as-is", "err", err)
		subQueries = []string{query}
	}
	return s.engine.Fuse(ctx, query, subQueries)
}

// NewReembedder creates a reembedder over the stored conversation memory.
func (s *System) NewReembedder(config *memory.ReembedConfig) (*memory.Reembedder, error) {
	return memory.NewReembedder(s.memoryRepo, s.provider.Embedder(), config)
}

// MemoryRepository exposes the long-term memory repository.
func (s *System) MemoryRepository() storage.MemoryRepository {
	return s.memoryRepo
}

// ChunkRepository exposes the knowledge base chunk repository.
func (s *System) ChunkRepository() storage.ChunkRepository {
	return s.chunkRepo
}

// Close releases the retriever pools, the AI provider, and storage.
func (s *System) Close() error {
	if s.engine != nil {
		s.engine.Release()
	}
	if s.sources != nil {
		s.sources.Release()
	}
	if s.hybrid != nil {
		s.hybrid.Release()
	}

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.chunkRepo.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := s.memoryRepo.Close(); err != nil {
		s.logger.Error("error closing memory repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
