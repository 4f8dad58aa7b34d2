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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// QueryDecomposer implements ai.QueryDecomposer using OpenAI-compatible chat APIs.
// It asks the model for a comma-separated list of atomic sub-queries.
type QueryDecomposer struct {
	client llms.Model
	logger *slog.Logger
}

// newQueryDecomposer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryDecomposer(config *ai.Config) (*QueryDecomposer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryDecomposer{
		client: client,
		logger: slog.Default().With("component", "openai-decomposer"),
	}, nil
}

// NewQueryDecomposer creates a new query decomposer using the provided configuration.
//
// Returns ai.QueryDecomposer interface to enforce abstraction.
func NewQueryDecomposer(config *ai.Config) (ai.QueryDecomposer, error) {
	return newQueryDecomposer(config)
}

// Decompose breaks a question into atomic sub-queries.
// A question the model cannot (or need not) split comes back as a single
// sub-query containing the question itself.
func (d *QueryDecomposer) Decompose(ctx context.Context, question string) ([]string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(decompositionPromptTemplate),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(question),
			},
		},
	}

	response, err := d.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		d.logger.Error("failed to generate sub-queries", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		d.logger.Debug("no choices returned from model, using question as-is")
		return []string{question}, nil
	}

	subQueries := parseSubQueries(response.Choices[0].Content)
	if len(subQueries) == 0 {
		d.logger.Debug("model returned no usable sub-queries, using question as-is")
		return []string{question}, nil
	}

	d.logger.Debug("decomposed question", "subQueries", len(subQueries))
	return subQueries, nil
}

// parseSubQueries splits a comma-separated model response into trimmed,
// non-empty sub-queries. Stray quoting and list punctuation are stripped.
func parseSubQueries(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\"")

	var subQueries []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, "\"'")
		part = strings.TrimSuffix(part, ".")
		if part == "" {
			continue
		}
		subQueries = append(subQueries, part)
	}
	return subQueries
}
