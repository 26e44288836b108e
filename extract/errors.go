package extract

import "errors"

var (
	// ErrUnsupportedFormat indicates the MIME type has no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed indicates the document could not be parsed.
	ErrExtractionFailed = errors.New("text extraction failed")
)
