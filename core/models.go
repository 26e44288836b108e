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


package core

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocumentID is a unique identifier for an ingested document.
// It is derived from the raw file content, so re-uploading identical bytes
// yields the same id and re-processing overwrites rather than duplicates.
type DocumentID string

// NewDocumentID derives a deterministic DocumentID from raw file bytes
// using BLAKE2b hashing.
func NewDocumentID(content []byte) DocumentID {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write(content)
	return DocumentID(hex.EncodeToString(h.Sum(nil)))
}

// Status is the processing state of a document.
type Status int

const (
	// StatusPending means the document has been stored but processing has not started.
	StatusPending Status = iota + 1
	// StatusProcessing means the pipeline is currently working on the document.
	StatusProcessing
	// StatusReady means processing finished; enrichment may be partially degraded.
	StatusReady
	// StatusError means the mandatory extraction stage failed.
	StatusError
)

// String returns the status name used in logs and the CLI.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// DetailLevel selects one of the chapter summary variants.
type DetailLevel int

const (
	// DetailBrief is a two to three sentence summary.
	DetailBrief DetailLevel = iota + 1
	// DetailStandard is a single paragraph summary.
	DetailStandard
	// DetailDetailed is a multi-paragraph summary.
	DetailDetailed
)

// String returns the detail level name used in prompts and logs.
func (d DetailLevel) String() string {
	switch d {
	case DetailBrief:
		return "brief"
	case DetailStandard:
		return "standard"
	case DetailDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// Document represents an ingested study document (also called a material).
// Status is mutated only by the processing pipeline.
type Document struct {
	Id         DocumentID
	Name       string
	MimeType   string
	Status     Status
	PageCount  int
	Summary    string // whole-document summary; empty until the summary stage succeeds
	FailReason string // set when Status is StatusError
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Chapter is a detected section of a document. Number is unique per
// document; re-processing a chapter overwrites the previous version.
type Chapter struct {
	DocumentId DocumentID
	Number     int
	Title      string
	StartWord  int // word offset of the chapter heading in the extracted text
	Brief      string
	Standard   string
	Detailed   string
	Questions  []PracticeQuestion
	UpdatedAt  time.Time
}

// SummaryFor returns the summary variant for the given detail level.
func (c *Chapter) SummaryFor(level DetailLevel) string {
	switch level {
	case DetailBrief:
		return c.Brief
	case DetailDetailed:
		return c.Detailed
	default:
		return c.Standard
	}
}

// PracticeQuestion is a generated study question with its answer.
type PracticeQuestion struct {
	Question string
	Answer   string
}

// CategoryOther is the fallback category for unrecognized values.
const CategoryOther = "other"

// ConceptCategories defines the closed set of valid concept categories.
// Values outside this set are normalized to CategoryOther.
var ConceptCategories = []string{
	"definition",
	"theorem",
	"formula",
	"process",
	"person",
	"place",
	"event",
	"date",
	"organization",
	"term",
	CategoryOther,
}

// NormalizeCategory lowercases a category and folds unrecognized values
// to CategoryOther.
func NormalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, c := range ConceptCategories {
		if category == c {
			return c
		}
	}
	return CategoryOther
}

// Concept is a key term extracted from a document, optionally scoped to a
// chapter (ChapterNumber 0 means document-level). Concepts carry no
// uniqueness constraint; re-processing clears a document's concepts before
// re-inserting them.
type Concept struct {
	DocumentId    DocumentID
	ChapterNumber int
	Term          string
	Definition    string
	Category      string
	InsertedAt    time.Time
}

// Chunk is a bounded, overlapping slice of document text used as the
// retrieval unit. The authoritative text lives here, in the chunk lookup
// table; the vector index stores only the embedding plus metadata and is
// rebuildable from chunks.
type Chunk struct {
	DocumentId    DocumentID
	Index         int
	Text          string
	PageNumber    int
	ChapterNumber int
}

// ID returns the chunk's stable identifier.
func (c *Chunk) ID() string {
	return ChunkID(c.DocumentId, c.Index)
}

const chunkIDSep = "-chunk-"

// ChunkID builds the stable chunk identifier "<documentId>-chunk-<index>".
// Identifiers are deterministic per sequence index, so re-upserting after a
// re-processing run overwrites rather than appends.
func ChunkID(docID DocumentID, index int) string {
	return string(docID) + chunkIDSep + strconv.Itoa(index)
}

// ParseChunkID splits a chunk identifier into its document id and sequence
// index. Returns ErrInvalidChunkID for malformed input.
func ParseChunkID(id string) (DocumentID, int, error) {
	pos := strings.LastIndex(id, chunkIDSep)
	if pos <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidChunkID, id)
	}
	index, err := strconv.Atoi(id[pos+len(chunkIDSep):])
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidChunkID, id)
	}
	return DocumentID(id[:pos]), index, nil
}

// ScoredChunk is a retrieval result: a chunk plus its similarity score.
type ScoredChunk struct {
	Chunk *Chunk
	Score float32
}
