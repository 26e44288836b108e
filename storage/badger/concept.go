package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/storage"
)

// ConceptRepository implements storage.ConceptRepository for BadgerDB.
// Concept keys carry a sequence suffix so repeated extraction runs append
// in insertion order without colliding.
type ConceptRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ConceptRepository = (*ConceptRepository)(nil)

// NewConceptRepository creates a new ConceptRepository.
func NewConceptRepository(backend *Backend) (*ConceptRepository, error) {
	idSeq, err := backend.GetSequence(conceptIDSeq)
	if err != nil {
		return nil, err
	}

	return &ConceptRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ConceptRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ConceptRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddConcepts appends concepts for their documents.
func (r *ConceptRepository) AddConcepts(ctx context.Context, concepts ...*core.Concept) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, concept := range concepts {
			seq, err := r.idSeq.Next()
			if err != nil {
				return err
			}

			if concept.InsertedAt.IsZero() {
				concept.InsertedAt = now
			}

			key := makeConceptKey(concept.DocumentId, seq)
			if err := tx.Set(key, storage.MarshalConcept(concept)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetConceptsByDocument retrieves all concepts of a document. The BigEndian
// sequence suffix in the key makes iteration order the insertion order.
func (r *ConceptRepository) GetConceptsByDocument(ctx context.Context, docID core.DocumentID) ([]*core.Concept, error) {
	var results []*core.Concept
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeConceptPrefix(docID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var concept *core.Concept
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				concept, unmarshalErr = storage.UnmarshalConcept(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			results = append(results, concept)
		}
		return nil
	}, false)
	return results, err
}

// DeleteByDocument removes all concepts of a document.
func (r *ConceptRepository) DeleteByDocument(ctx context.Context, docID core.DocumentID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		keys, err := collectKeys(tx, makeConceptPrefix(docID))
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
