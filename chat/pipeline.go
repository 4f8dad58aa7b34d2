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


package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/retrieval"
)

// Pipeline runs one conversational turn: it ages overflowing history into
// long-term memory, decomposes the question, fuses retrieval results, and
// generates the answer.
type Pipeline struct {
	memoryManager *memory.Manager
	engine        *retrieval.Engine
	decomposer    ai.QueryDecomposer
	generator     ai.AnswerGenerator
	logger        *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a conversational pipeline.
func NewPipeline(
	memoryManager *memory.Manager,
	engine *retrieval.Engine,
	decomposer ai.QueryDecomposer,
	generator ai.AnswerGenerator,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if memoryManager == nil {
		return nil, ErrMemoryManagerRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if decomposer == nil {
		return nil, ErrDecomposerRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	p := &Pipeline{
		memoryManager: memoryManager,
		engine:        engine,
		decomposer:    decomposer,
		generator:     generator,
		logger:        slog.Default().With("component", "chat-pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Ask answers the question within the session and records the turn.
func (p *Pipeline) Ask(ctx context.Context, session *Session, question string) (string, error) {
	return p.AskWithMonitor(ctx, session, question, nil)
}

// AskWithMonitor is Ask with per-stage observation hooks on the fusion run.
func (p *Pipeline) AskWithMonitor(ctx context.Context, session *Session, question string, monitor retrieval.FusionMonitor) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	// Age overflowing history into long-term memory before retrieval so the
	// memory retriever can already see it.
	window, err := p.memoryManager.Store(ctx, session.History())
	if err != nil {
		return "", err
	}
	session.replace(window)

	subQueries, err := p.decomposer.Decompose(ctx, question)
	if err != nil || len(subQueries) == 0 {
		// Decomposition is best-effort: fall back to the question itself.
		p.logger.Warn("query decomposition failed, using question as-is", "err", err)
		subQueries = []string{question}
	}

	docs, err := p.engine.FuseWithMonitor(ctx, question, subQueries, monitor)
	if err != nil {
		return "", err
	}

	answer, err := p.generator.Generate(ctx, question, docs, session.History())
	if err != nil {
		return "", err
	}

	session.append(
		core.Message{Role: core.RoleHuman, Content: question},
		core.Message{Role: core.RoleAI, Content: answer},
	)

	p.logger.Debug("turn complete",
		"subQueries", len(subQueries), "contextDocs", len(docs), "historyLen", session.Len())
	return answer, nil
}
