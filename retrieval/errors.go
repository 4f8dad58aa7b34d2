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


package retrieval

import "errors"

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrNoSources is returned when an ensemble is built with no sources.
	ErrNoSources = errors.New("at least one weighted retriever required")

	// ErrNegativeWeight is returned when a source weight is negative.
	ErrNegativeWeight = errors.New("source weight cannot be negative")

	// ErrInvalidDepth is returned for a non-positive per-query result bound.
	ErrInvalidDepth = errors.New("retrieval depth must be positive")

	// ErrInvalidRRFConstant is returned for a rank-dampening constant below 1.
	ErrInvalidRRFConstant = errors.New("rrf constant must be at least 1")

	// ErrInvalidTopN is returned for a non-positive final result size.
	ErrInvalidTopN = errors.New("top-n must be positive")

	// ErrAllRetrieversFailed is returned by an ensemble when every
	// configured source failed for a query. A subset of failed sources is
	// not an error; their contributions are simply omitted.
	ErrAllRetrieversFailed = errors.New("all retrievers failed")

	// ErrAllSourcesFailed is returned by the fusion engine when every
	// sub-query retrieval failed. It distinguishes "retrieval broken" from
	// "no relevant documents", which is an empty (non-error) result.
	ErrAllSourcesFailed = errors.New("retrieval failed for every sub-query")
)
