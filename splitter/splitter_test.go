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


package splitter

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		wantErr   error
	}{
		{name: "valid", chunkSize: 100, overlap: 20, wantErr: nil},
		{name: "zero overlap", chunkSize: 100, overlap: 0, wantErr: nil},
		{name: "zero chunk size", chunkSize: 0, overlap: 0, wantErr: ErrInvalidChunkSize},
		{name: "negative chunk size", chunkSize: -5, overlap: 0, wantErr: ErrInvalidChunkSize},
		{name: "overlap equals chunk size", chunkSize: 50, overlap: 50, wantErr: ErrInvalidOverlap},
		{name: "overlap above chunk size", chunkSize: 50, overlap: 80, wantErr: ErrInvalidOverlap},
		{name: "negative overlap", chunkSize: 50, overlap: -1, wantErr: ErrInvalidOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.chunkSize, tt.overlap)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New(%d, %d) error = %v, want %v", tt.chunkSize, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	s, err := New(100, 20)
	if err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"", "   ", "\n\n\t"} {
		if _, err := s.Split(text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Split(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s, err := New(100, 20)
	if err != nil {
		t.Fatal(err)
	}

	spans, err := s.Split("just a few words here")
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Text != "just a few words here" {
		t.Errorf("Text = %q", spans[0].Text)
	}
	if spans[0].Start != 0 || spans[0].End != 5 {
		t.Errorf("Start/End = %d/%d, want 0/5", spans[0].Start, spans[0].End)
	}
}

func TestSplit_ExactOverlap(t *testing.T) {
	s, err := New(10, 3)
	if err != nil {
		t.Fatal(err)
	}

	// 35 uniform words with no sentence or paragraph boundaries, so every
	// cut is a hard cut at the word limit.
	words := make([]string, 35)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}

	spans, err := s.Split(strings.Join(words, " "))
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) < 2 {
		t.Fatalf("got %d spans, want several", len(spans))
	}

	if spans[0].Start != 0 {
		t.Errorf("first span starts at %d, want 0", spans[0].Start)
	}
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.Start != prev.End-3 {
			t.Errorf("span %d starts at %d, want %d (exact overlap of 3)", i, cur.Start, prev.End-3)
		}

		prevWords := strings.Fields(prev.Text)
		curWords := strings.Fields(cur.Text)
		tail := prevWords[len(prevWords)-3:]
		head := curWords[:3]
		for j := range tail {
			if tail[j] != head[j] {
				t.Errorf("span %d overlap mismatch: tail %v, head %v", i, tail, head)
			}
		}
	}
	if last := spans[len(spans)-1]; last.End != 35 {
		t.Errorf("last span ends at %d, want 35", last.End)
	}
}

func TestSplit_Reconstruction(t *testing.T) {
	s, err := New(12, 4)
	if err != nil {
		t.Fatal(err)
	}

	text := `The first paragraph talks about thermodynamics. It has two sentences.

The second paragraph is about entropy and disorder. Entropy never decreases
in an isolated system. That is the second law.

A final short paragraph.`

	spans, err := s.Split(text)
	if err != nil {
		t.Fatal(err)
	}

	// Dropping each chunk's leading overlap and concatenating must
	// reproduce the whitespace-normalized source.
	var rebuilt []string
	for i, span := range spans {
		words := strings.Fields(span.Text)
		if i > 0 {
			words = words[4:]
		}
		rebuilt = append(rebuilt, words...)
	}

	want := strings.Join(strings.Fields(text), " ")
	got := strings.Join(rebuilt, " ")
	if got != want {
		t.Errorf("reconstruction mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestSplit_ChunkSizeNeverExceeded(t *testing.T) {
	s, err := New(15, 5)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("alpha beta gamma. ", 40)
	spans, err := s.Split(text)
	if err != nil {
		t.Fatal(err)
	}

	for i, span := range spans {
		n := len(strings.Fields(span.Text))
		if n > 15 {
			t.Errorf("span %d has %d words, exceeds chunk size 15", i, n)
		}
		if n == 0 {
			t.Errorf("span %d is empty", i)
		}
	}
}

func TestSplit_SnapsToSentenceBoundary(t *testing.T) {
	s, err := New(12, 2)
	if err != nil {
		t.Fatal(err)
	}

	// A sentence ends at word 10, within the lookback window (12/4 = 3)
	// of the hard limit, so the first chunk should end there.
	text := "one two three four five six seven eight nine ten. eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty"
	spans, err := s.Split(text)
	if err != nil {
		t.Fatal(err)
	}

	if spans[0].End != 10 {
		t.Errorf("first span ends at %d, want 10 (sentence boundary)", spans[0].End)
	}
	if !strings.HasSuffix(spans[0].Text, "ten.") {
		t.Errorf("first span text = %q, want it to end at the sentence", spans[0].Text)
	}
	if spans[1].Start != 8 {
		t.Errorf("second span starts at %d, want 8", spans[1].Start)
	}
}

func TestSplit_ParagraphPreferredOverSentence(t *testing.T) {
	s, err := New(12, 2)
	if err != nil {
		t.Fatal(err)
	}

	// Both a sentence end (word 11) and a paragraph end (word 10) fall in
	// the lookback window; the paragraph boundary wins.
	text := "one two three four five six seven eight nine ten\n\neleven. twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty twentyone"
	spans, err := s.Split(text)
	if err != nil {
		t.Fatal(err)
	}

	if spans[0].End != 10 {
		t.Errorf("first span ends at %d, want 10 (paragraph boundary)", spans[0].End)
	}
}
