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


// Package knowledge provides the knowledge base: document loading, chunking,
// and retrieval.
//
// The Loader reads plain-text documents from a directory, splits them into
// overlapping chunks, embeds the chunks, and persists them to the chunk
// repository.
//
// Two retrieval strategies operate over the stored chunks:
//
//   - KeywordRetriever: BM25 scoring over tokenized chunk contents
//   - VectorRetriever: cosine similarity over chunk embeddings
//
// NewHybridRetriever combines both into a weighted ensemble so that lexical
// and semantic matches reinforce each other.
package knowledge
