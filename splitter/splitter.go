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


// Package splitter cuts document text into bounded, overlapping chunks.
//
// Chunks are measured in words. Consecutive chunks share exactly the
// configured overlap, except the first chunk (no leading overlap) and the
// last (which may be shorter than the chunk size). Chunk ends prefer natural
// boundaries: a paragraph end, then a sentence end, found within a lookback
// window below the size limit; when neither is in range the chunk is cut at
// the word limit. Concatenating the chunks with the overlaps removed
// reconstructs the source text modulo whitespace normalization.
package splitter

import (
	"strings"
	"unicode"
)

// Span is one chunk of the source text. Start and End are word offsets into
// the whitespace-normalized source, End exclusive.
type Span struct {
	Text  string
	Start int
	End   int
}

// Splitter produces overlapping word-bounded chunks.
type Splitter struct {
	chunkSize int
	overlap   int
	lookback  int
}

// New creates a Splitter. chunkSize is the maximum chunk length in words;
// overlap is the number of words consecutive chunks share and must be
// smaller than chunkSize.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize < 1 {
		return nil, ErrInvalidChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, ErrInvalidOverlap
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
		// Boundary snapping may shorten a chunk by at most a quarter of
		// its size, and never into the region shared with the previous
		// chunk.
		lookback: chunkSize / 4,
	}, nil
}

// word is a token of the source text with boundary flags describing what
// followed it in the original.
type word struct {
	text          string
	endsSentence  bool
	endsParagraph bool
}

// Split cuts text into ordered spans. Returns ErrEmptyText when the text
// contains no words.
func (s *Splitter) Split(text string) ([]Span, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}

	var spans []Span
	start := 0
	for {
		end := start + s.chunkSize
		if end >= len(words) {
			spans = append(spans, s.span(words, start, len(words)))
			return spans, nil
		}

		end = s.snapToBoundary(words, start, end)
		spans = append(spans, s.span(words, start, end))
		start = end - s.overlap
	}
}

// snapToBoundary moves end back to the nearest paragraph end, or failing
// that sentence end, within the lookback window. The window never reaches
// into the overlap carried from the previous chunk, so each chunk always
// advances past its predecessor.
func (s *Splitter) snapToBoundary(words []word, start, end int) int {
	limit := end - s.lookback
	if floor := start + s.overlap + 1; limit < floor {
		limit = floor
	}

	sentenceEnd := -1
	for i := end - 1; i >= limit; i-- {
		if words[i-1].endsParagraph {
			return i
		}
		if sentenceEnd < 0 && words[i-1].endsSentence {
			sentenceEnd = i
		}
	}
	if sentenceEnd > 0 {
		return sentenceEnd
	}
	return end
}

func (s *Splitter) span(words []word, start, end int) Span {
	parts := make([]string, end-start)
	for i := start; i < end; i++ {
		parts[i-start] = words[i].text
	}
	return Span{
		Text:  strings.Join(parts, " "),
		Start: start,
		End:   end,
	}
}

// tokenize splits text into words, marking each word that ends a sentence
// or a paragraph (blank line) in the source.
func tokenize(text string) []word {
	var words []word
	fieldStart := -1

	flush := func(end int) {
		if fieldStart >= 0 {
			token := text[fieldStart:end]
			words = append(words, word{
				text:         token,
				endsSentence: endsSentence(token),
			})
			fieldStart = -1
		}
	}

	newlines := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			flush(i)
			if r == '\n' {
				newlines++
				if newlines >= 2 && len(words) > 0 {
					words[len(words)-1].endsParagraph = true
				}
			}
			continue
		}
		newlines = 0
		if fieldStart < 0 {
			fieldStart = i
		}
	}
	flush(len(text))
	return words
}

// endsSentence reports whether a word terminates a sentence, allowing for
// trailing quotes and brackets.
func endsSentence(token string) bool {
	trimmed := strings.TrimRight(token, `"')]}`+"”’")
	switch {
	case strings.HasSuffix(trimmed, "."),
		strings.HasSuffix(trimmed, "!"),
		strings.HasSuffix(trimmed, "?"):
		return true
	}
	return false
}
