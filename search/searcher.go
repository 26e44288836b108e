package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/studyowl/studyowl/ai"
	"github.com/studyowl/studyowl/cache"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/retry"
	"github.com/studyowl/studyowl/storage"
	"github.com/studyowl/studyowl/vectorstore"
)

// DefaultMaxHits is the number of chunks retrieved when the caller passes
// a non-positive limit.
const DefaultMaxHits = 5

// Result is the outcome of a retrieval: the ranked chunks with their
// similarity scores and the assembled context string. Both may be empty
// when the document has no indexed chunks; callers are expected to answer
// from general capability in that case.
type Result struct {
	Chunks    []core.ScoredChunk
	Context   string
	FromCache bool
}

// Searcher retrieves document chunks relevant to a query.
type Searcher struct {
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	vectors  vectorstore.VectorStore
	cache    *cache.SearchCache
	retry    retry.Policy
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCache sets the search cache. Without a cache every retrieval goes to
// the vector index.
func WithCache(c *cache.SearchCache) Option {
	return func(s *Searcher) error {
		s.cache = c
		return nil
	}
}

// WithRetryPolicy sets the retry policy for embedding and vector store
// calls. Default is retry.DefaultPolicy().
func WithRetryPolicy(policy retry.Policy) Option {
	return func(s *Searcher) error {
		s.retry = policy
		return nil
	}
}

// NewSearcher creates a new searcher. A nil vector store degrades to a
// no-op index, so every retrieval yields empty context.
func NewSearcher(
	chunks storage.ChunkRepository,
	provider ai.AIProvider,
	vectors vectorstore.VectorStore,
	opts ...Option,
) (*Searcher, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if vectors == nil {
		vectors = vectorstore.NewNoop()
	}

	s := &Searcher{
		chunks:   chunks,
		embedder: provider.Embedder(),
		vectors:  vectors,
		retry:    retry.DefaultPolicy(),
		logger:   slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Retrieve returns up to maxHits chunks of the document ranked by
// descending similarity to the query.
func (s *Searcher) Retrieve(ctx context.Context, docID core.DocumentID, query string, maxHits int) (*Result, error) {
	return s.RetrieveWithMonitor(ctx, docID, query, maxHits, nil)
}

// RetrieveWithMonitor runs Retrieve with stage callbacks.
func (s *Searcher) RetrieveWithMonitor(ctx context.Context, docID core.DocumentID, query string, maxHits int, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	monitor.Start(query)

	if s.cache != nil {
		if cached, ok := s.cache.Get(docID, query); ok {
			monitor.CacheHit(cached)
			result := s.buildResult(cached, maxHits)
			result.FromCache = true
			monitor.Finish(result.Chunks)
			return result, nil
		}
	}

	var embedding []float32
	err := s.retry.Do(ctx, func() error {
		var callErr error
		embedding, callErr = s.embedder.EmbedText(ctx, query)
		return callErr
	})
	if err != nil {
		s.logger.Error("error embedding query", "document", docID, "err", err)
		return nil, err
	}
	embedding = vectorstore.NormalizeVector(embedding)
	monitor.AfterQueryEmbedding(len(embedding))

	var matches []vectorstore.Match
	err = s.retry.Do(ctx, func() error {
		var callErr error
		matches, callErr = s.vectors.Query(ctx, embedding, maxHits, vectorstore.Filter{DocumentID: docID})
		return callErr
	})
	if err != nil {
		s.logger.Error("error querying vector index", "document", docID, "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(matches)

	// Resolve ids against the chunk lookup table, the authoritative store
	// of chunk text. A missing chunk means the index has diverged; the
	// match is dropped rather than failing the retrieval.
	scored := make([]core.ScoredChunk, 0, len(matches))
	for _, match := range matches {
		matchDocID, index, err := core.ParseChunkID(match.ID)
		if err != nil {
			s.logger.Warn("skipping malformed chunk id from index", "id", match.ID)
			monitor.ChunkMissing(match.ID)
			continue
		}
		chunk, err := s.chunks.GetChunk(ctx, matchDocID, index)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.logger.Warn("indexed chunk missing from lookup table", "id", match.ID)
				monitor.ChunkMissing(match.ID)
				continue
			}
			return nil, err
		}
		scored = append(scored, core.ScoredChunk{Chunk: chunk, Score: match.Score})
		monitor.ChunkResolved(chunk, match.Score)
	}

	if s.cache != nil {
		s.cache.Set(docID, query, scored)
	}

	result := s.buildResult(scored, maxHits)
	monitor.Finish(result.Chunks)
	return result, nil
}

// buildResult trims the ranked chunks to maxHits and assembles the context
// string in descending score order. Matches arrive already ranked from the
// vector index.
func (s *Searcher) buildResult(scored []core.ScoredChunk, maxHits int) *Result {
	if len(scored) > maxHits {
		scored = scored[:maxHits]
	}

	parts := make([]string, len(scored))
	for i, sc := range scored {
		parts[i] = sc.Chunk.Text
	}

	return &Result{
		Chunks:  scored,
		Context: strings.Join(parts, "\n\n"),
	}
}
