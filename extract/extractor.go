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


// Package extract provides text extraction from the supported document formats.
package extract

import (
	"fmt"
	"log/slog"
	"strings"
)

// MIME types accepted by the extractor.
const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"
	MimeMD    = "text/markdown"
)

// Result is the outcome of text extraction.
type Result struct {
	// Text is the full extracted text.
	Text string

	// PageCount is the number of pages in the source document.
	// Formats without page structure report 1.
	PageCount int

	// PageStarts holds the word offset at which each page begins, one entry
	// per page. Formats without page structure report a single zero entry.
	PageStarts []int
}

// PageAt returns the 1-based page number containing the given word offset.
func (r *Result) PageAt(wordOffset int) int {
	page := 1
	for i, start := range r.PageStarts {
		if wordOffset < start {
			break
		}
		page = i + 1
	}
	return page
}

// Extractor extracts plain text from document bytes.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		logger: slog.Default().With("component", "extractor"),
	}
}

// Extract extracts text from content based on its MIME type. Parameters on
// the MIME type (e.g. "; charset=utf-8") are ignored. Unknown text/* types
// are treated as plain text; anything else returns ErrUnsupportedFormat.
func (e *Extractor) Extract(content []byte, mimeType string) (*Result, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrExtractionFailed)
	}

	mime := mimeType
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))

	e.logger.Debug("extracting text", "mime_type", mime, "size", len(content))

	switch {
	case mime == MimePDF:
		return extractPDF(content)
	case mime == MimeDOCX:
		return extractDOCX(content)
	case mime == MimePlain, mime == MimeMD, strings.HasPrefix(mime, "text/"):
		return extractPlain(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
}
