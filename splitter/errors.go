package splitter

import "errors"

var (
	// ErrInvalidChunkSize indicates a chunk size below 1 word.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1 word")

	// ErrInvalidOverlap indicates a negative overlap or one not smaller
	// than the chunk size.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than chunk size")

	// ErrEmptyText indicates the input contained no words.
	ErrEmptyText = errors.New("text contains no words")
)
