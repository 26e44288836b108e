package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyowl/studyowl/vectorstore"
)

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Upsert(ctx, []vectorstore.Record{
		{ID: "doc1-chunk-0", Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{DocumentID: "doc1"}},
	})
	require.NoError(t, err)

	// Re-upserting the same id replaces the vector instead of duplicating.
	err = s.Upsert(ctx, []vectorstore.Record{
		{ID: "doc1-chunk-0", Vector: []float32{0, 1}, Metadata: vectorstore.Metadata{DocumentID: "doc1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	matches, err := s.Query(ctx, []float32{0, 1}, 5, vectorstore.Filter{DocumentID: "doc1"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestStore_QueryFilterAndRanking(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Upsert(ctx, []vectorstore.Record{
		{ID: "doc1-chunk-0", Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{DocumentID: "doc1", PageNumber: 1, ChapterNumber: 1}},
		{ID: "doc1-chunk-1", Vector: []float32{0.6, 0.8}, Metadata: vectorstore.Metadata{DocumentID: "doc1", PageNumber: 2, ChapterNumber: 1}},
		{ID: "doc2-chunk-0", Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{DocumentID: "doc2", PageNumber: 1, ChapterNumber: 1}},
	})
	require.NoError(t, err)

	matches, err := s.Query(ctx, []float32{1, 0}, 5, vectorstore.Filter{DocumentID: "doc1"})
	require.NoError(t, err)
	require.Len(t, matches, 2, "filter must exclude doc2")

	assert.Equal(t, "doc1-chunk-0", matches[0].ID)
	assert.Equal(t, "doc1-chunk-1", matches[1].ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score, "descending score order")
	assert.Equal(t, 1, matches[0].Metadata.PageNumber)
}

func TestStore_QueryTopK(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	records := make([]vectorstore.Record, 10)
	for i := range records {
		records[i] = vectorstore.Record{
			ID:       string(rune('a' + i)),
			Vector:   []float32{float32(i) / 10, 0},
			Metadata: vectorstore.Metadata{DocumentID: "doc1"},
		}
	}
	require.NoError(t, s.Upsert(ctx, records))

	matches, err := s.Query(ctx, []float32{1, 0}, 3, vectorstore.Filter{DocumentID: "doc1"})
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestStore_QueryNoMatchIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	matches, err := s.Query(ctx, []float32{1, 0}, 5, vectorstore.Filter{DocumentID: "missing"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_DeleteByFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Upsert(ctx, []vectorstore.Record{
		{ID: "doc1-chunk-0", Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{DocumentID: "doc1"}},
		{ID: "doc2-chunk-0", Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{DocumentID: "doc2"}},
	}))

	require.NoError(t, s.DeleteByFilter(ctx, vectorstore.Filter{DocumentID: "doc1"}))
	assert.Equal(t, 1, s.Len())

	// Deleting a non-existent document is a no-op, not an error.
	require.NoError(t, s.DeleteByFilter(ctx, vectorstore.Filter{DocumentID: "doc1"}))
	assert.Equal(t, 1, s.Len())
}
