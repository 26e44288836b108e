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
	"errors"
	"testing"
	"time"
)

func TestNewDocumentID(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty content",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := NewDocumentID([]byte(tt.content))
			id2 := NewDocumentID([]byte(tt.content))

			if id1 != id2 {
				t.Errorf("NewDocumentID() produced different IDs for same content: %s vs %s", id1, id2)
			}
			if len(id1) != 32 {
				t.Errorf("NewDocumentID() length = %d, want 32", len(id1))
			}
		})
	}
}

func TestNewDocumentID_Different(t *testing.T) {
	id1 := NewDocumentID([]byte("content1"))
	id2 := NewDocumentID([]byte("content2"))

	if id1 == id2 {
		t.Errorf("NewDocumentID() produced same ID for different content")
	}
}

func TestChunkID_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		docID DocumentID
		index int
	}{
		{
			name:  "first chunk",
			docID: "abc123",
			index: 0,
		},
		{
			name:  "large index",
			docID: "abc123",
			index: 9999,
		},
		{
			name:  "document id containing hyphens",
			docID: "doc-with-hyphens",
			index: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ChunkID(tt.docID, tt.index)

			docID, index, err := ParseChunkID(id)
			if err != nil {
				t.Fatalf("ParseChunkID(%q) error = %v", id, err)
			}
			if docID != tt.docID {
				t.Errorf("ParseChunkID() docID = %q, want %q", docID, tt.docID)
			}
			if index != tt.index {
				t.Errorf("ParseChunkID() index = %d, want %d", index, tt.index)
			}
		})
	}
}

func TestParseChunkID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{
			name: "missing separator",
			id:   "abc123",
		},
		{
			name: "empty string",
			id:   "",
		},
		{
			name: "non-numeric index",
			id:   "abc123-chunk-xyz",
		},
		{
			name: "negative index",
			id:   "abc123-chunk--1",
		},
		{
			name: "empty document id",
			id:   "-chunk-0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseChunkID(tt.id)
			if !errors.Is(err, ErrInvalidChunkID) {
				t.Errorf("ParseChunkID(%q) error = %v, want ErrInvalidChunkID", tt.id, err)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{
			name:     "known category",
			category: "definition",
			want:     "definition",
		},
		{
			name:     "uppercase folds to lowercase",
			category: "THEOREM",
			want:     "theorem",
		},
		{
			name:     "surrounding whitespace",
			category: "  formula  ",
			want:     "formula",
		},
		{
			name:     "unknown category",
			category: "cooking technique",
			want:     CategoryOther,
		},
		{
			name:     "empty category",
			category: "",
			want:     CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategory(tt.category)
			if got != tt.want {
				t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestChapter_SummaryFor(t *testing.T) {
	chapter := &Chapter{
		Brief:    "brief text",
		Standard: "standard text",
		Detailed: "detailed text",
	}

	tests := []struct {
		name  string
		level DetailLevel
		want  string
	}{
		{
			name:  "brief",
			level: DetailBrief,
			want:  "brief text",
		},
		{
			name:  "standard",
			level: DetailStandard,
			want:  "standard text",
		},
		{
			name:  "detailed",
			level: DetailDetailed,
			want:  "detailed text",
		},
		{
			name:  "unknown level falls back to standard",
			level: DetailLevel(0),
			want:  "standard text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chapter.SummaryFor(tt.level)
			if got != tt.want {
				t.Errorf("SummaryFor(%v) = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestDocumentMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "full document",
			doc: Document{
				Id:         "doc1",
				Name:       "notes.pdf",
				MimeType:   "application/pdf",
				Status:     StatusReady,
				PageCount:  42,
				Summary:    "a summary",
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "failed document with zero timestamps",
			doc: Document{
				Id:         "doc2",
				Name:       "broken.docx",
				Status:     StatusError,
				FailReason: "extraction failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := make([]byte, DocumentMUS.Size(tt.doc))
			n := DocumentMUS.Marshal(tt.doc, bs)
			if n != len(bs) {
				t.Fatalf("Marshal() wrote %d bytes, Size() = %d", n, len(bs))
			}

			got, n, err := DocumentMUS.Unmarshal(bs)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if n != len(bs) {
				t.Errorf("Unmarshal() consumed %d bytes, want %d", n, len(bs))
			}
			if got != tt.doc {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, tt.doc)
			}
		})
	}
}

func TestChapterMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	chapter := Chapter{
		DocumentId: "doc1",
		Number:     2,
		Title:      "Chapter 2: Thermodynamics",
		StartWord:  1200,
		Brief:      "brief",
		Standard:   "standard",
		Detailed:   "detailed",
		Questions: []PracticeQuestion{
			{Question: "What is entropy?", Answer: "A measure of disorder."},
			{Question: "State the first law.", Answer: "Energy is conserved."},
		},
		UpdatedAt: now,
	}

	bs := make([]byte, ChapterMUS.Size(chapter))
	ChapterMUS.Marshal(chapter, bs)

	got, n, err := ChapterMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n != len(bs) {
		t.Errorf("Unmarshal() consumed %d bytes, want %d", n, len(bs))
	}
	if got.DocumentId != chapter.DocumentId || got.Number != chapter.Number ||
		got.Title != chapter.Title || got.StartWord != chapter.StartWord {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Questions) != 2 || got.Questions[1].Answer != "Energy is conserved." {
		t.Errorf("questions mismatch: got %+v", got.Questions)
	}
	if !got.UpdatedAt.Equal(chapter.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, chapter.UpdatedAt)
	}
}

func TestChunkMUS_RoundTrip(t *testing.T) {
	chunk := Chunk{
		DocumentId:    "doc1",
		Index:         7,
		Text:          "some chunk text with unicode: ∂S ≥ 0",
		PageNumber:    3,
		ChapterNumber: 2,
	}

	bs := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, bs)

	got, _, err := ChunkMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != chunk {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, chunk)
	}
}
