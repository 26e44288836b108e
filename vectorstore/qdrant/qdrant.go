// Copyright 2025 The studyowl Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package qdrant implements vectorstore.VectorStore against the Qdrant
// REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"time"

	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/vectorstore"
)

// upsertBatchLimit is the maximum number of points per upsert request.
// Larger inputs are committed as multiple ordered sub-batches.
const upsertBatchLimit = 100

// Store is a minimal REST client to Qdrant.
// It assumes cosine distance and creates the collection if missing.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	logger     *slog.Logger
}

// Config configures the Qdrant client.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStore creates a Qdrant-backed vector store.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "studyowl"
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "vectorstore-qdrant"),
	}
}

// Init creates the collection if it does not exist.
// Qdrant returns 200 OK if the collection exists with the same schema.
func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return vectorstore.ErrDimensionMismatch
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

// Upsert writes records in sub-batches of at most 100 points. Sub-batches
// are committed in order; a failing sub-batch stops the run but does not
// roll back the ones already written.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	for start := 0; start < len(records); start += upsertBatchLimit {
		end := min(start+upsertBatchLimit, len(records))

		points := make([]map[string]any, 0, end-start)
		for _, r := range records[start:end] {
			points = append(points, map[string]any{
				"id":     pointID(r.ID),
				"vector": r.Vector,
				"payload": map[string]any{
					"chunk_id":       r.ID,
					"document_id":    string(r.Metadata.DocumentID),
					"page_number":    r.Metadata.PageNumber,
					"chapter_number": r.Metadata.ChapterNumber,
				},
			})
		}
		body := map[string]any{"points": points}
		url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
		if err := s.putJSON(ctx, url, body); err != nil {
			return fmt.Errorf("upsert batch [%d:%d): %w", start, end, err)
		}
		s.logger.Debug("upserted batch", "start", start, "count", end-start)
	}
	return nil
}

// Query runs a filtered similarity search.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if f := qdrantFilter(filter); f != nil {
		req["filter"] = f
	}

	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		m := vectorstore.Match{Score: r.Score}
		if v, ok := r.Payload["chunk_id"].(string); ok {
			m.ID = v
		}
		if v, ok := r.Payload["document_id"].(string); ok {
			m.Metadata.DocumentID = core.DocumentID(v)
		}
		if v, ok := r.Payload["page_number"].(float64); ok {
			m.Metadata.PageNumber = int(v)
		}
		if v, ok := r.Payload["chapter_number"].(float64); ok {
			m.Metadata.ChapterNumber = int(v)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// DeleteByFilter removes all points matching the filter. Deleting with a
// filter that matches nothing succeeds.
func (s *Store) DeleteByFilter(ctx context.Context, filter vectorstore.Filter) error {
	f := qdrantFilter(filter)
	if f == nil {
		return nil
	}
	body := map[string]any{"filter": f}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection)
	return s.postJSON(ctx, url, body, nil)
}

// qdrantFilter translates the exact-match filter into Qdrant's filter DSL.
// Returns nil for the match-everything filter.
func qdrantFilter(filter vectorstore.Filter) map[string]any {
	if filter.DocumentID == "" {
		return nil
	}
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "document_id",
				"match": map[string]any{"value": string(filter.DocumentID)},
			},
		},
	}
}

// pointID derives the numeric point id Qdrant requires from the chunk id.
// Qdrant accepts unsigned integers or UUIDs; chunk ids are neither, so the
// chunk id is hashed with FNV-1a and kept in the payload for resolution.
func pointID(id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	return s.doJSON(ctx, http.MethodPut, url, body, nil)
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	return s.doJSON(ctx, http.MethodPost, url, body, out)
}

func (s *Store) doJSON(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
