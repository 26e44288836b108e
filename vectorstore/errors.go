package vectorstore

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose length differs from
	// the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrLengthMismatch indicates records with missing vectors.
	ErrLengthMismatch = errors.New("records and vectors length mismatch")
)
