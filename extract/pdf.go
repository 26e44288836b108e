package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF extracts text page by page, recording the word offset at which
// each page begins so chunks can later be attributed to a page. A page that
// fails to parse is skipped rather than failing the whole document; the
// document fails only when no page yields text.
func extractPDF(content []byte) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", ErrExtractionFailed, err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrExtractionFailed)
	}

	var buf strings.Builder
	pageStarts := make([]int, 0, numPages)
	wordCount := 0
	extracted := 0

	for i := 1; i <= numPages; i++ {
		pageStarts = append(pageStarts, wordCount)

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(text)
		wordCount += len(strings.Fields(text))
		extracted++
	}

	if extracted == 0 {
		return nil, fmt.Errorf("%w: no extractable text in pdf", ErrExtractionFailed)
	}

	return &Result{
		Text:       buf.String(),
		PageCount:  numPages,
		PageStarts: pageStarts,
	}, nil
}
