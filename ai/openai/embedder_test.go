package openai

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyowl/studyowl/ai"
)

// oversizedInputLimit marks inputs the fake provider rejects as too large.
const oversizedInputLimit = 100

// embeddingVector is the deterministic vector the fake provider returns for
// a text, so tests can verify order preservation against the input.
func embeddingVector(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	return []float32{float32(h.Sum32()%1000) / 1000.0, 0.5, 0.25}
}

// embeddingServer serves an OpenAI-compatible /v1/embeddings endpoint that
// rejects any request containing an input longer than oversizedInputLimit
// with a context-length error, mimicking provider behavior for oversized
// items. batchSizes, when non-nil, records the input count of each request.
func embeddingServer(t *testing.T, batchSizes *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/embeddings", r.URL.Path)

		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if batchSizes != nil {
			*batchSizes = append(*batchSizes, len(req.Input))
		}

		for _, text := range req.Input {
			if len(text) > oversizedInputLimit {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{
						"message": "This model's maximum context length is 8192 tokens",
					},
				})
				return
			}
		}

		data := make([]map[string]any, len(req.Input))
		for i, text := range req.Input {
			data[i] = map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": embeddingVector(text),
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "test-embed",
		})
	}))
}

func newTestEmbedder(t *testing.T, host string, batchSize int) ai.Embedder {
	t.Helper()
	embedder, err := NewEmbedder(ai.NewConfig(
		ai.WithHost(host),
		ai.WithEmbeddingModel("test-embed"),
		ai.WithEmbeddingBatchSize(batchSize),
	))
	require.NoError(t, err)
	return embedder
}

func TestEmbedTextsOversizedItemIsolated(t *testing.T) {
	var batchSizes []int
	srv := embeddingServer(t, &batchSizes)
	defer srv.Close()

	embedder := newTestEmbedder(t, srv.URL, 32)

	texts := []string{
		"alpha",
		strings.Repeat("oversized ", 50),
		"gamma",
	}
	vecs, err := embedder.EmbedTexts(context.Background(), texts)
	require.NoError(t, err, "one bad item must not fail the batch")
	require.Len(t, vecs, 3)

	assert.Equal(t, embeddingVector("alpha"), vecs[0])
	assert.Nil(t, vecs[1], "oversized item degrades to a nil slot")
	assert.Equal(t, embeddingVector("gamma"), vecs[2])

	// One failed batch request, then each item retried individually.
	assert.Equal(t, []int{3, 1, 1, 1}, batchSizes)
}

func TestEmbedTextsOrderAcrossSubBatches(t *testing.T) {
	var batchSizes []int
	srv := embeddingServer(t, &batchSizes)
	defer srv.Close()

	embedder := newTestEmbedder(t, srv.URL, 2)

	texts := []string{"one", "two", "three", "four", "five"}
	vecs, err := embedder.EmbedTexts(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))

	for i, text := range texts {
		assert.Equal(t, embeddingVector(text), vecs[i], "vector %d out of order", i)
	}
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}

func TestEmbedTextsAllItemsFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"service down"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	embedder := newTestEmbedder(t, srv.URL, 32)

	vecs, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	require.Error(t, err, "whole-batch failure must surface when nothing embedded")
	assert.Nil(t, vecs)
}

func TestEmbedTextOversizedClassification(t *testing.T) {
	srv := embeddingServer(t, nil)
	defer srv.Close()

	embedder := newTestEmbedder(t, srv.URL, 32)

	_, err := embedder.EmbedText(context.Background(), strings.Repeat("big ", 50))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrInputTooLarge))
}
