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


// Package cache provides the bounded search-result cache.
//
// Entries are keyed by (document id, normalized query) and evicted by two
// independent triggers: a fixed TTL applied lazily on access, and a
// capacity bound that evicts the single oldest-inserted entry. Eviction is
// insertion-ordered (FIFO), not access-ordered: a cache hit does not
// refresh an entry's position. Query keys are case/whitespace-folded and
// truncated to a fixed prefix, so long queries sharing a prefix
// deliberately collide.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/studyowl/studyowl/core"
)

const (
	// DefaultMaxSize is the default entry capacity.
	DefaultMaxSize = 100

	// DefaultTTL is the default entry lifetime.
	DefaultTTL = 5 * time.Minute

	// queryPrefixLen is the number of bytes of the normalized query used
	// in the cache key.
	queryPrefixLen = 64
)

type entry struct {
	key        string
	results    []core.ScoredChunk
	insertedAt time.Time
}

// SearchCache caches ranked retrieval results per document and query.
// It is safe for concurrent use. The cache never performs retrieval
// itself; callers Get, and on a miss retrieve then Set.
type SearchCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string // keys in insertion order, oldest first
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// New creates a SearchCache. Non-positive maxSize or ttl fall back to the
// defaults.
func New(maxSize int, ttl time.Duration) *SearchCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SearchCache{
		entries: make(map[string]*entry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached results for (docID, query) and whether they were
// present. An entry older than the TTL is removed and reported as absent.
func (c *SearchCache) Get(docID core.DocumentID, query string) ([]core.ScoredChunk, bool) {
	key := cacheKey(docID, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.remove(key)
		return nil, false
	}
	return e.results, true
}

// Set stores results for (docID, query). Inserting a new entry at capacity
// evicts the oldest-inserted entry. Overwriting an existing key refreshes
// its results and timestamp but keeps its insertion position.
func (c *SearchCache) Set(docID core.DocumentID, query string, results []core.ScoredChunk) {
	key := cacheKey(docID, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.results = results
		e.insertedAt = c.now()
		return
	}

	if len(c.entries) >= c.maxSize {
		c.remove(c.order[0])
	}

	c.entries[key] = &entry{
		key:        key,
		results:    results,
		insertedAt: c.now(),
	}
	c.order = append(c.order, key)
}

// Invalidate drops every cached entry for the given document. Used when a
// document is deleted or reprocessed.
func (c *SearchCache) Invalidate(docID core.DocumentID) {
	prefix := string(docID) + "\x00"

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(key)
		}
	}
}

// Len reports the current number of entries, including not-yet-collected
// expired ones.
func (c *SearchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove deletes a key from the map and the insertion-order list.
// Callers must hold c.mu.
func (c *SearchCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// cacheKey builds the lookup key from the document id and the normalized
// query.
func cacheKey(docID core.DocumentID, query string) string {
	return string(docID) + "\x00" + normalizeQuery(query)
}

// normalizeQuery lowercases the query, folds runs of whitespace to single
// spaces and truncates to the prefix length.
func normalizeQuery(query string) string {
	q := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	if len(q) > queryPrefixLen {
		q = q[:queryPrefixLen]
	}
	return q
}
