package reindex

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyowl/studyowl/ai/mock"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/storage"
	"github.com/studyowl/studyowl/storage/badger"
	"github.com/studyowl/studyowl/vectorstore"
	"github.com/studyowl/studyowl/vectorstore/memory"
)

func setupDocument(t *testing.T, repos *badger.Repositories, chunkCount int) core.DocumentID {
	t.Helper()
	ctx := context.Background()

	content := []byte(fmt.Sprintf("document with %d chunks", chunkCount))
	doc := &core.Document{
		Id:       core.NewDocumentID(content),
		Name:     "doc.txt",
		MimeType: "text/plain",
		Status:   core.StatusReady,
	}
	require.NoError(t, repos.Documents.PutDocument(ctx, doc))

	chunks := make([]*core.Chunk, chunkCount)
	for i := range chunks {
		chunks[i] = &core.Chunk{
			DocumentId: doc.Id,
			Index:      i,
			Text:       fmt.Sprintf("chunk %d text body", i),
			PageNumber: i/10 + 1,
		}
	}
	require.NoError(t, repos.Chunks.PutChunks(ctx, chunks...))
	return doc.Id
}

func TestReindexRebuildsIndex(t *testing.T) {
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { repos.Close(); backend.Close() }()

	ctx := context.Background()
	docID := setupDocument(t, repos, 25)
	store := memory.NewStore()

	// Pre-existing stale vector that the rebuild must remove.
	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{{
		ID:       core.ChunkID(docID, 999),
		Vector:   []float32{1, 0, 0},
		Metadata: vectorstore.Metadata{DocumentID: docID},
	}}))

	var out bytes.Buffer
	config := DefaultConfig()
	config.BatchSize = 10
	r, err := NewReindexer(repos.Documents, repos.Chunks, mock.NewMockEmbedder(), store, config, &out)
	require.NoError(t, err)

	require.NoError(t, r.Run(ctx, docID))

	matches, err := store.Query(ctx, make([]float32, 384), 100, vectorstore.Filter{DocumentID: docID})
	require.NoError(t, err)
	assert.Len(t, matches, 25)
	for _, m := range matches {
		assert.NotEqual(t, core.ChunkID(docID, 999), m.ID)
	}
	assert.Contains(t, out.String(), "Reindexing complete")
}

func TestReindexNoChunks(t *testing.T) {
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { repos.Close(); backend.Close() }()

	ctx := context.Background()
	doc := &core.Document{
		Id:       core.NewDocumentID([]byte("empty")),
		Name:     "empty.txt",
		MimeType: "text/plain",
		Status:   core.StatusReady,
	}
	require.NoError(t, repos.Documents.PutDocument(ctx, doc))

	r, err := NewReindexer(repos.Documents, repos.Chunks, mock.NewMockEmbedder(), memory.NewStore(), nil, nil)
	require.NoError(t, err)

	err = r.Run(ctx, doc.Id)
	assert.ErrorIs(t, err, ErrNoChunks)
}

func TestReindexUnknownDocument(t *testing.T) {
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { repos.Close(); backend.Close() }()

	r, err := NewReindexer(repos.Documents, repos.Chunks, mock.NewMockEmbedder(), memory.NewStore(), nil, nil)
	require.NoError(t, err)

	err = r.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReindexRunAllSkipsEmptyDocuments(t *testing.T) {
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { repos.Close(); backend.Close() }()

	ctx := context.Background()
	docID := setupDocument(t, repos, 5)

	empty := &core.Document{
		Id:       core.NewDocumentID([]byte("no chunks here")),
		Name:     "empty.txt",
		MimeType: "text/plain",
		Status:   core.StatusError,
	}
	require.NoError(t, repos.Documents.PutDocument(ctx, empty))

	store := memory.NewStore()
	var out bytes.Buffer
	r, err := NewReindexer(repos.Documents, repos.Chunks, mock.NewMockEmbedder(), store, nil, &out)
	require.NoError(t, err)

	require.NoError(t, r.RunAll(ctx))

	matches, err := store.Query(ctx, make([]float32, 384), 100, vectorstore.Filter{DocumentID: docID})
	require.NoError(t, err)
	assert.Len(t, matches, 5)
	assert.Contains(t, out.String(), "Skipping document")
}

func TestNewReindexerValidation(t *testing.T) {
	repos, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { repos.Close(); backend.Close() }()

	_, err = NewReindexer(nil, repos.Chunks, mock.NewMockEmbedder(), memory.NewStore(), nil, nil)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewReindexer(repos.Documents, nil, mock.NewMockEmbedder(), memory.NewStore(), nil, nil)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewReindexer(repos.Documents, repos.Chunks, nil, memory.NewStore(), nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewReindexer(repos.Documents, repos.Chunks, mock.NewMockEmbedder(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
}
