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


// Package retrieval combines ranked document lists from heterogeneous
// search backends into a single deduplicated, score-ordered list.
//
// Two combinators are provided:
//   - Ensemble merges same-query results from several weighted retrievers
//     using weighted reciprocal-rank scoring. An Ensemble is itself a
//     Retriever, so ensembles can be chained.
//   - Engine issues one retriever against several sub-queries and fuses the
//     per-query lists with reciprocal rank fusion (RRF).
//
// Native similarity scores are never mixed across retriever kinds; only
// rank positions cross retriever boundaries. Documents are deduplicated by
// exact content equality, and output order is fully deterministic for fixed
// retriever outputs, regardless of the completion order of the parallel
// retrieval calls.
package retrieval
