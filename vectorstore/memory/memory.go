// Package memory provides an in-process vector store using brute-force
// cosine similarity. It is intended for tests and single-node development
// setups without a Qdrant instance.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/studyowl/studyowl/vectorstore"
)

// Store keeps all records in memory, keyed by record id.
type Store struct {
	mu      sync.RWMutex
	records map[string]vectorstore.Record
}

// NewStore returns an empty in-memory vector store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]vectorstore.Record),
	}
}

// Upsert stores records, overwriting any existing record with the same id.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

// Query scores every matching record against the query vector and returns
// the topK best matches in descending score order. Vectors are assumed
// L2-normalized, so the dot product is the cosine similarity.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]vectorstore.Match, 0, len(s.records))
	for _, r := range s.records {
		if filter.DocumentID != "" && r.Metadata.DocumentID != filter.DocumentID {
			continue
		}
		matches = append(matches, vectorstore.Match{
			ID:       r.ID,
			Score:    dot(r.Vector, vector),
			Metadata: r.Metadata,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// DeleteByFilter removes every record matching the filter.
func (s *Store) DeleteByFilter(ctx context.Context, filter vectorstore.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.records {
		if filter.DocumentID == "" || r.Metadata.DocumentID == filter.DocumentID {
			delete(s.records, id)
		}
	}
	return nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
