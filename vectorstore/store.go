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


// Package vectorstore defines the vector index abstraction used for
// semantic retrieval. The index stores embeddings plus minimal metadata
// only; chunk text lives in the chunk lookup table, so the index is
// always rebuildable from stored chunks.
package vectorstore

import (
	"context"

	"github.com/studyowl/studyowl/core"
)

// Metadata is the payload attached to every indexed vector. Backends may
// additionally persist the record id in their payload when their native
// point ids cannot carry it (Qdrant allows only integer or UUID ids, so
// its adapter stores the chunk id under a payload key); chunk text never
// reaches the index either way.
type Metadata struct {
	DocumentID    core.DocumentID
	PageNumber    int
	ChapterNumber int
}

// Record is a vector plus its identity and metadata, ready for indexing.
type Record struct {
	ID       string
	Vector   []float32
	Metadata Metadata
}

// Match is a query result ranked by descending similarity score.
type Match struct {
	ID       string
	Score    float32
	Metadata Metadata
}

// Filter restricts queries and deletions by exact metadata match.
// The zero value matches everything.
type Filter struct {
	DocumentID core.DocumentID
}

// VectorStore indexes embeddings for similarity search.
// Implementations must be safe for concurrent use.
type VectorStore interface {
	// Upsert writes records to the index. Re-upserting an id overwrites
	// the previous record. Implementations split large inputs into
	// ordered sub-batches; a failed sub-batch does not roll back the
	// sub-batches committed before it.
	Upsert(ctx context.Context, records []Record) error

	// Query returns up to topK matches ranked by descending similarity,
	// restricted to records matching the filter. No match is an empty
	// result, not an error.
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error)

	// DeleteByFilter removes every record matching the filter. Deleting
	// with a filter that matches nothing is a no-op.
	DeleteByFilter(ctx context.Context, filter Filter) error
}
