// Copyright 2025 The studyowl Authors
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


// Package storage provides the storage abstraction layer for studyowl.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Repositories
//
//   - DocumentRepository: document records and status transitions
//   - ChapterRepository: per-document chapters keyed by number
//   - ConceptRepository: extracted concepts, append-only per run
//   - ChunkRepository: the chunk lookup table, the authoritative store of
//     chunk text (the vector index holds only ids and metadata)
//
// # Serialization
//
// Records are serialized with the MUS binary format (mus-go). The
// Marshal*/Unmarshal* helpers in this package wrap the core serializers so
// backends never touch encoding details directly.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return interface types to prevent accidental
// coupling to BadgerDB specifics; internal constructors may return concrete
// types within the implementation package.
package storage
