package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain returns content as string, validating it is valid UTF-8.
// Invalid UTF-8 sequences are replaced with the replacement character.
// Plain text has no page structure, so the result reports a single page.
func extractPlain(content []byte) (*Result, error) {
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "�"))
	}
	return &Result{
		Text:       string(content),
		PageCount:  1,
		PageStarts: []int{0},
	}, nil
}
