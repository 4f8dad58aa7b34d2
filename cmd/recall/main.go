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


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/recall"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/storage/badger"
	"github.com/urfave/cli/v2"
)

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"RECALL_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"RECALL_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-host",
			Usage:   "Chat completion service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"RECALL_CHAT_HOST"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"RECALL_CHAT_MODEL"},
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Retrieval-augmented assistant with hybrid search and conversational memory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to an env file with service settings",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "chat",
				Usage:  "Start an interactive chat session",
				Action: chatCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
						Value:   "./recall_db",
					},
					&cli.StringFlag{
						Name:    "kb",
						Aliases: []string{"k"},
						Usage:   "Path to the knowledge base directory",
						Value:   "./knowledge_base",
					},
					&cli.BoolFlag{
						Name:  "reindex",
						Usage: "Rebuild the knowledge base index before chatting",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Print sub-queries and retrieved context for each turn",
					},
					&cli.IntFlag{
						Name:  "window",
						Usage: "Number of recent messages kept in short-term history",
						Value: memory.DefaultWindowSize,
					},
					&cli.IntFlag{
						Name:  "top-n",
						Usage: "Number of fused documents handed to the generator",
						Value: retrieval.DefaultTopN,
					},
				}, aiFlags()...),
			},
			{
				Name:   "index",
				Usage:  "Index the knowledge base directory",
				Action: indexCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
						Value:   "./recall_db",
					},
					&cli.StringFlag{
						Name:    "kb",
						Aliases: []string{"k"},
						Usage:   "Path to the knowledge base directory",
						Value:   "./knowledge_base",
					},
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Rebuild the index even if chunks already exist",
					},
				}, aiFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Run fused retrieval for a query without generating an answer",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
						Value:   "./recall_db",
					},
					&cli.IntFlag{
						Name:  "top-n",
						Usage: "Number of fused documents to print",
						Value: retrieval.DefaultTopN,
					},
				}, aiFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored conversation memory with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"RECALL_EMBEDDING_HOST"},
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
						EnvVars:  []string{"RECALL_EMBEDDING_MODEL"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) error {
	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err == nil {
		slog.Debug("loaded settings from .env")
	}

	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("chat-host")),
		ai.WithChatModel(c.String("chat-model")),
	)
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	sys, err := recall.NewSystem(ctx, c.String("db"),
		recall.WithAIConfig(aiConfigFromFlags(c)),
		recall.WithWindowSize(c.Int("window")),
		recall.WithEngineOptions(retrieval.WithTopN(c.Int("top-n"))),
	)
	if err != nil {
		return fmt.Errorf("failed to start system: %w", err)
	}
	defer sys.Close()

	if _, err := sys.IndexKnowledgeBase(ctx, c.String("kb"), c.Bool("reindex")); err != nil {
		return fmt.Errorf("failed to index knowledge base: %w", err)
	}

	var monitor retrieval.FusionMonitor
	if c.Bool("debug") {
		monitor = &debugMonitor{}
	}

	fmt.Println("Ask a question, or type \"exit\" to quit.")

	session := sys.NewSession()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") {
			break
		}

		answer, err := sys.AskWithMonitor(ctx, session, question, monitor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(answer)
	}

	return scanner.Err()
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	sys, err := recall.NewSystem(ctx, c.String("db"),
		recall.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to start system: %w", err)
	}
	defer sys.Close()

	count, err := sys.IndexKnowledgeBase(ctx, c.String("kb"), c.Bool("force"))
	if err != nil {
		return fmt.Errorf("failed to index knowledge base: %w", err)
	}

	if count == 0 {
		fmt.Println("Knowledge base already indexed (use --force to rebuild)")
	} else {
		fmt.Printf("Indexed %d chunks\n", count)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	ctx := context.Background()

	sys, err := recall.NewSystem(ctx, c.String("db"),
		recall.WithAIConfig(aiConfigFromFlags(c)),
		recall.WithEngineOptions(retrieval.WithTopN(c.Int("top-n"))),
	)
	if err != nil {
		return fmt.Errorf("failed to start system: %w", err)
	}
	defer sys.Close()

	docs, err := sys.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d documents\n", len(docs))
	for i, doc := range docs {
		source := doc.Metadata["source"]
		if source == "" {
			source = "memory"
		}
		fmt.Printf("%d: [%s] %s\n", i+1, source, doc.Content)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewMemoryRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	// Chat settings are not needed for reembedding
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("embedding-host")),
		ai.WithChatModel("unused"),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedder, err := memory.NewReembedder(repo, embedder, &memory.ReembedConfig{
		BatchSize:  c.Int("batch-size"),
		MaxRetries: c.Int("max-retries"),
		RetryDelay: c.Duration("retry-delay"),
	})
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	start := time.Now()
	processed, err := reembedder.Run(ctx)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Reembedded %d records in %v\n", processed, time.Since(start).Round(time.Second))
	return nil
}

// debugMonitor prints each fusion stage to stderr.
type debugMonitor struct{}

func (m *debugMonitor) Start(question string, subQueries []string) {
	fmt.Fprintf(os.Stderr, "-- sub-queries for %q:\n", question)
	for _, q := range subQueries {
		fmt.Fprintf(os.Stderr, "--   %s\n", q)
	}
}

func (m *debugMonitor) AfterRetrieve(subQuery string, docs []*core.Document) {
	fmt.Fprintf(os.Stderr, "-- %d documents for %q\n", len(docs), subQuery)
}

func (m *debugMonitor) RetrieveFailed(subQuery string, err error) {
	fmt.Fprintf(os.Stderr, "-- retrieval failed for %q: %v\n", subQuery, err)
}

func (m *debugMonitor) Finish(fused []*core.Document) {
	fmt.Fprintf(os.Stderr, "-- fused context (%d documents):\n", len(fused))
	for i, doc := range fused {
		fmt.Fprintf(os.Stderr, "--   %d: %s\n", i+1, doc.Content)
	}
}
