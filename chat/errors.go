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

import "errors"

var (
	// ErrMemoryManagerRequired is returned when a memory manager is not provided.
	ErrMemoryManagerRequired = errors.New("memory manager required")

	// ErrEngineRequired is returned when a fusion engine is not provided.
	ErrEngineRequired = errors.New("fusion engine required")

	// ErrDecomposerRequired is returned when a query decomposer is not provided.
	ErrDecomposerRequired = errors.New("query decomposer required")

	// ErrGeneratorRequired is returned when an answer generator is not provided.
	ErrGeneratorRequired = errors.New("answer generator required")

	// ErrEmptyQuestion is returned when the question is blank.
	ErrEmptyQuestion = errors.New("question must not be empty")
)
