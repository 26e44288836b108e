package studyowl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyowl/studyowl/ai/mock"
	"github.com/studyowl/studyowl/config"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/vectorstore/memory"
)

func testConfig() *config.AppConfig {
	cfg, _ := config.Load(filepath.Join(os.TempDir(), "does-not-exist.yaml"))
	cfg.Pipeline.EnrichmentIntervalMS = 1
	return cfg
}

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := NewLibrary(testConfig(),
		WithInMemoryStorage(),
		WithAIProvider(mock.NewMockProvider()),
		WithVectorStore(memory.NewStore()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func testDocumentText() []byte {
	var b strings.Builder
	b.WriteString("Chapter 1: Foundations\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "Sentence %d covers the foundations of the subject. ", i)
	}
	b.WriteString("\nChapter 2: Applications\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "Sentence %d applies the theory in practice. ", i)
	}
	return []byte(b.String())
}

func TestNewLibrary(t *testing.T) {
	t.Run("create new library", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Path = filepath.Join(t.TempDir(), "library_db")

		lib, err := NewLibrary(cfg, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, lib)
		defer lib.Close()

		assert.NotNil(t, lib.DocumentRepository())
		assert.NotNil(t, lib.ChunkRepository())
		assert.NotNil(t, lib.searcher)
		assert.NotNil(t, lib.pipeline)
	})

	t.Run("error with invalid storage path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0o644))

		cfg := testConfig()
		cfg.Storage.Path = tmpFile

		lib, err := NewLibrary(cfg, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, lib)
	})
}

func TestLibraryIngestAndRetrieve(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	doc, err := lib.IngestSync(ctx, "foundations.txt", "text/plain", testDocumentText())
	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, doc.Status)

	chapters, err := lib.Chapters(ctx, doc.Id)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Foundations", chapters[0].Title)

	result, err := lib.Retrieve(ctx, doc.Id, "foundations of the subject", 3)
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)
	assert.False(t, result.FromCache)
	assert.NotEmpty(t, result.Context)

	// Repeated query is served from the cache.
	cached, err := lib.Retrieve(ctx, doc.Id, "foundations of the subject", 3)
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
}

func TestLibraryIngestAsync(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	doc, err := lib.Ingest(ctx, "async.txt", "text/plain", testDocumentText())
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, doc.Status)

	deadline := time.Now().Add(10 * time.Second)
	for {
		current, err := lib.Document(ctx, doc.Id)
		require.NoError(t, err)
		if current.Status == core.StatusReady {
			break
		}
		require.NotEqual(t, core.StatusError, current.Status, "processing failed: %s", current.FailReason)
		require.True(t, time.Now().Before(deadline), "document never became ready")
		time.Sleep(20 * time.Millisecond)
	}
}

func TestLibraryDeleteDocument(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	doc, err := lib.IngestSync(ctx, "doomed.txt", "text/plain", testDocumentText())
	require.NoError(t, err)

	require.NoError(t, lib.DeleteDocument(ctx, doc.Id))

	_, err = lib.Document(ctx, doc.Id)
	assert.Error(t, err)

	chapters, err := lib.Chapters(ctx, doc.Id)
	require.NoError(t, err)
	assert.Empty(t, chapters)

	concepts, err := lib.Concepts(ctx, doc.Id)
	require.NoError(t, err)
	assert.Empty(t, concepts)

	result, err := lib.Retrieve(ctx, doc.Id, "foundations of the subject", 3)
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
	assert.False(t, result.FromCache)
}

func TestLibraryReindexer(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	doc, err := lib.IngestSync(ctx, "reindexed.txt", "text/plain", testDocumentText())
	require.NoError(t, err)

	var out strings.Builder
	r, err := lib.NewReindexer(&out)
	require.NoError(t, err)

	require.NoError(t, r.Run(ctx, doc.Id))
	assert.Contains(t, out.String(), "Reindexing complete")

	result, err := lib.Retrieve(ctx, doc.Id, "applies the theory", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Chunks)
}

func TestLibraryDocumentsList(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	_, err := lib.IngestSync(ctx, "one.txt", "text/plain", testDocumentText())
	require.NoError(t, err)
	_, err = lib.IngestSync(ctx, "two.txt", "text/plain", []byte("Chapter 1: Solo\nshort but distinct body text"))
	require.NoError(t, err)

	docs, err := lib.Documents(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
