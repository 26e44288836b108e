package storage

import (
	"context"

	"github.com/studyowl/studyowl/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing document records.
type DocumentRepository interface {
	Repository

	// PutDocument stores a document, overwriting an existing record with
	// the same id. Sets InsertedAt on first write and UpdatedAt always.
	PutDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a document by id.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.DocumentID) (*core.Document, error)

	// ListDocuments retrieves all stored documents.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// UpdateStatus transitions a document's status, recording failReason
	// when the new status is StatusError.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateStatus(ctx context.Context, id core.DocumentID, status core.Status, failReason string) error

	// DeleteDocument removes the document record.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.DocumentID) error
}

// ChapterRepository provides operations for managing chapters.
type ChapterRepository interface {
	Repository

	// PutChapters stores chapters, overwriting by (document id, number).
	// Sets UpdatedAt on every write.
	PutChapters(ctx context.Context, chapters ...*core.Chapter) error

	// GetChapters retrieves a document's chapters ordered by number.
	// A document without chapters yields an empty slice, not an error.
	GetChapters(ctx context.Context, docID core.DocumentID) ([]*core.Chapter, error)

	// DeleteByDocument removes all chapters of a document.
	// Removing chapters of an unknown document is a no-op.
	DeleteByDocument(ctx context.Context, docID core.DocumentID) error
}

// ConceptRepository provides operations for managing extracted concepts.
// Concepts carry no uniqueness constraint; reprocessing clears a
// document's concepts before re-inserting them.
type ConceptRepository interface {
	Repository

	// AddConcepts appends concepts. Sets InsertedAt if not already set.
	AddConcepts(ctx context.Context, concepts ...*core.Concept) error

	// GetConceptsByDocument retrieves all concepts of a document in
	// insertion order.
	GetConceptsByDocument(ctx context.Context, docID core.DocumentID) ([]*core.Concept, error)

	// DeleteByDocument removes all concepts of a document.
	DeleteByDocument(ctx context.Context, docID core.DocumentID) error
}

// ChunkRepository is the chunk lookup table: the authoritative store of
// chunk text, keyed by (document id, sequence index). The vector index
// holds only ids and metadata and is rebuildable from this table.
type ChunkRepository interface {
	Repository

	// PutChunks stores chunks, overwriting by (document id, index).
	PutChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunk retrieves a single chunk.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, docID core.DocumentID, index int) (*core.Chunk, error)

	// GetChunksByDocument retrieves a document's chunks ordered by index.
	GetChunksByDocument(ctx context.Context, docID core.DocumentID) ([]*core.Chunk, error)

	// DeleteByDocument removes all chunks of a document.
	DeleteByDocument(ctx context.Context, docID core.DocumentID) error
}
