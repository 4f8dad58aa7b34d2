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
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// AnswerGenerator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type AnswerGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newAnswerGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerGenerator(config *ai.Config) (*AnswerGenerator, error) {
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

	return &AnswerGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewAnswerGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewAnswerGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newAnswerGenerator(config)
}

// Generate answers the question from the retrieved context documents and the
// conversation history. Context documents are rendered most relevant first.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, docs []*core.Document, history []core.Message) (string, error) {
	systemPrompt := fmt.Sprintf(answerPromptTemplate, renderContext(docs))

	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role: llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{
			llms.TextPart(systemPrompt),
		},
	})

	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == core.RoleAI {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role: role,
			Parts: []llms.ContentPart{
				llms.TextPart(msg.Content),
			},
		})
	}

	content = append(content, llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(question),
		},
	})

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// renderContext joins document contents into a single context block,
// separated by blank lines, in fused relevance order.
func renderContext(docs []*core.Document) string {
	if len(docs) == 0 {
		return "(no relevant context found)"
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(doc.Content)
	}
	return sb.String()
}
