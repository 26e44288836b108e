package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/storage"
)

// ChapterRepository implements storage.ChapterRepository for BadgerDB.
type ChapterRepository struct {
	backend *Backend
}

var _ storage.ChapterRepository = (*ChapterRepository)(nil)

// NewChapterRepository creates a new ChapterRepository.
func NewChapterRepository(backend *Backend) *ChapterRepository {
	return &ChapterRepository{backend: backend}
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *ChapterRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChapterRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutChapters stores chapters, overwriting by (document id, number).
func (r *ChapterRepository) PutChapters(ctx context.Context, chapters ...*core.Chapter) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, chapter := range chapters {
			chapter.UpdatedAt = now

			key := makeChapterKey(chapter.DocumentId, chapter.Number)
			if err := tx.Set(key, storage.MarshalChapter(chapter)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChapters retrieves a document's chapters ordered by number. The
// BigEndian number suffix in the key makes iteration order the chapter
// order, so no sort is needed.
func (r *ChapterRepository) GetChapters(ctx context.Context, docID core.DocumentID) ([]*core.Chapter, error) {
	var results []*core.Chapter
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeChapterPrefix(docID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var chapter *core.Chapter
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				chapter, unmarshalErr = storage.UnmarshalChapter(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			results = append(results, chapter)
		}
		return nil
	}, false)
	return results, err
}

// DeleteByDocument removes all chapters of a document.
func (r *ChapterRepository) DeleteByDocument(ctx context.Context, docID core.DocumentID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		keys, err := collectKeys(tx, makeChapterPrefix(docID))
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

// collectKeys gathers all keys under a prefix. Deleting while iterating is
// not safe in BadgerDB, so deletions collect first and delete after.
func collectKeys(tx *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}
