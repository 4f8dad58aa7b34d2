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


// Package ai provides abstractions for AI services used in recall.
//
// This package defines interfaces for text embeddings, query decomposition,
// and answer generation. The retrieval and conversation layers depend on
// these abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three service interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - QueryDecomposer: Breaks a question into atomic sub-queries
//   - AnswerGenerator: Answers a question from retrieved context
//
// plus AIProvider, which aggregates them for convenient initialization.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert call counts.
package ai
