package qdrant

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyowl/studyowl/vectorstore"
)

func TestStore_UpsertSubBatches(t *testing.T) {
	var batches [][]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/collections/studyowl/points", r.URL.Path)

		var body struct {
			Points []any `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		batches = append(batches, body.Points)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL})

	records := make([]vectorstore.Record, 250)
	for i := range records {
		records[i] = vectorstore.Record{
			ID:       "doc1-chunk-" + string(rune('0'+i%10)),
			Vector:   []float32{0.1, 0.2},
			Metadata: vectorstore.Metadata{DocumentID: "doc1"},
		}
	}

	require.NoError(t, s.Upsert(context.Background(), records))
	require.Len(t, batches, 3, "250 records should split into 100+100+50")
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 100)
	assert.Len(t, batches[2], 50)
}

func TestStore_UpsertPayloadShape(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Points []map[string]any `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Points, 1)
		captured = body.Points[0]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL, Collection: "study"})
	err := s.Upsert(context.Background(), []vectorstore.Record{
		{
			ID:     "abc-chunk-3",
			Vector: []float32{0.5},
			Metadata: vectorstore.Metadata{
				DocumentID:    "abc",
				PageNumber:    2,
				ChapterNumber: 1,
			},
		},
	})
	require.NoError(t, err)

	payload, ok := captured["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc-chunk-3", payload["chunk_id"])
	assert.Equal(t, "abc", payload["document_id"])
	assert.Equal(t, float64(2), payload["page_number"])
	assert.Equal(t, float64(1), payload["chapter_number"])
	// Metadata only; chunk text must never reach the vector index.
	assert.NotContains(t, payload, "text")
}

func TestStore_QueryFilterAndDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/studyowl/points/search", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(3), req["limit"])

		filter, ok := req["filter"].(map[string]any)
		require.True(t, ok, "filter must be sent")
		must := filter["must"].([]any)
		cond := must[0].(map[string]any)
		assert.Equal(t, "document_id", cond["key"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"score": 0.92,
					"payload": map[string]any{
						"chunk_id":       "doc1-chunk-4",
						"document_id":    "doc1",
						"page_number":    float64(7),
						"chapter_number": float64(2),
					},
				},
			},
		})
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL})
	matches, err := s.Query(context.Background(), []float32{0.1}, 3, vectorstore.Filter{DocumentID: "doc1"})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "doc1-chunk-4", matches[0].ID)
	assert.InDelta(t, 0.92, matches[0].Score, 1e-6)
	assert.Equal(t, "doc1", string(matches[0].Metadata.DocumentID))
	assert.Equal(t, 7, matches[0].Metadata.PageNumber)
	assert.Equal(t, 2, matches[0].Metadata.ChapterNumber)
}

func TestStore_QueryEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": []any{}})
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL})
	matches, err := s.Query(context.Background(), []float32{0.1}, 5, vectorstore.Filter{DocumentID: "missing"})
	require.NoError(t, err, "no filter match is an empty result, not an error")
	assert.Empty(t, matches)
}

func TestStore_DeleteByFilter(t *testing.T) {
	var path string
	var req map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL})
	require.NoError(t, s.DeleteByFilter(context.Background(), vectorstore.Filter{DocumentID: "doc1"}))

	assert.Equal(t, "/collections/studyowl/points/delete", path)
	require.Contains(t, req, "filter")
}

func TestStore_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL})
	err := s.Upsert(context.Background(), []vectorstore.Record{{ID: "x", Vector: []float32{1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestStore_APIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{URL: srv.URL, APIKey: "secret"})
	require.NoError(t, s.Init(context.Background(), 384))
	assert.Equal(t, "secret", gotKey)
}

func TestPointID_Deterministic(t *testing.T) {
	assert.Equal(t, pointID("doc1-chunk-0"), pointID("doc1-chunk-0"))
	assert.NotEqual(t, pointID("doc1-chunk-0"), pointID("doc1-chunk-1"))

	// Pinned to FNV-1a so ids stay stable across releases; changing the
	// hash would orphan every point already written.
	h := fnv.New64a()
	h.Write([]byte("doc1-chunk-0"))
	assert.Equal(t, h.Sum64(), pointID("doc1-chunk-0"))
}
