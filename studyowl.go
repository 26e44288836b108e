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


// Package studyowl turns long-form documents into queryable study
// material: chapters, summaries, key concepts, practice questions and a
// semantic search index for retrieval-augmented answering.
//
// The Library type is the process-wide context object: it owns the record
// store, the AI provider, the vector index and the search cache, and
// constructs the processing pipeline and the searcher on top of them. It
// is initialized once at process start and torn down with Close.
package studyowl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/studyowl/studyowl/ai"
	"github.com/studyowl/studyowl/ai/openai"
	"github.com/studyowl/studyowl/cache"
	"github.com/studyowl/studyowl/config"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/pipeline"
	"github.com/studyowl/studyowl/reindex"
	"github.com/studyowl/studyowl/search"
	"github.com/studyowl/studyowl/storage"
	"github.com/studyowl/studyowl/storage/badger"
	"github.com/studyowl/studyowl/vectorstore"
	"github.com/studyowl/studyowl/vectorstore/memory"
	"github.com/studyowl/studyowl/vectorstore/qdrant"
)

// Library is the root object wiring storage, AI services, the vector
// index and the cache into the pipeline and the searcher.
type Library struct {
	cfg      *config.AppConfig
	backend  *badger.Backend
	repos    *badger.Repositories
	provider ai.AIProvider
	vectors  vectorstore.VectorStore
	cache    *cache.SearchCache
	pipeline *pipeline.Pipeline
	searcher *search.Searcher
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	provider ai.AIProvider
	vectors  vectorstore.VectorStore
	inMemory bool
}

// WithAIProvider injects a pre-built AI provider, bypassing the
// configuration. Used by tests and embedders of the library.
func WithAIProvider(provider ai.AIProvider) LibraryOption {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithVectorStore injects a pre-built vector store, bypassing the
// configuration.
func WithVectorStore(store vectorstore.VectorStore) LibraryOption {
	return func(o *libraryOptions) {
		o.vectors = store
	}
}

// WithInMemoryStorage keeps all records in memory. Used by tests.
func WithInMemoryStorage() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// NewLibrary constructs a Library from the application configuration.
func NewLibrary(cfg *config.AppConfig, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	storagePath := cfg.Storage.Path
	if storagePath == "" && !options.inMemory {
		var err error
		storagePath, err = config.DefaultStoragePath()
		if err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(storagePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repos, err := badger.NewRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		aiOpts := []ai.ConfigOption{
			ai.WithHost(cfg.AI.Host),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithGeneratorModel(cfg.AI.GeneratorModel),
			ai.WithEmbeddingBatchSize(cfg.AI.EmbeddingBatchSize),
			ai.WithQuestionCount(cfg.Pipeline.QuestionCount),
		}
		if key := os.Getenv(cfg.AI.APIKeyEnv); key != "" {
			aiOpts = append(aiOpts, ai.WithAPIKey(key))
		}
		provider, err = openai.NewProvider(ai.NewConfig(aiOpts...))
		if err != nil {
			repos.Close()
			backend.Close()
			return nil, err
		}
	}

	vectors := options.vectors
	if vectors == nil {
		vectors, err = buildVectorStore(cfg)
		if err != nil {
			provider.Close()
			repos.Close()
			backend.Close()
			return nil, err
		}
	}

	searchCache := cache.New(cfg.Search.CacheSize, time.Duration(cfg.Search.CacheTTLSecs)*time.Second)

	pipelineOpts := []pipeline.Option{
		pipeline.WithChunking(cfg.Pipeline.ChunkSize, cfg.Pipeline.Overlap),
		pipeline.WithEnrichmentInterval(time.Duration(cfg.Pipeline.EnrichmentIntervalMS) * time.Millisecond),
		pipeline.WithQuestionCount(cfg.Pipeline.QuestionCount),
		pipeline.WithSummaryPrefixWords(cfg.Pipeline.SummaryPrefixWords),
		pipeline.WithCache(searchCache),
	}
	if cfg.Pipeline.PoolSize > 0 {
		pipelineOpts = append(pipelineOpts, pipeline.WithPoolSize(cfg.Pipeline.PoolSize))
	}

	proc, err := pipeline.NewPipeline(repos.Documents, repos.Chapters, repos.Concepts, repos.Chunks,
		provider, vectors, pipelineOpts...)
	if err != nil {
		provider.Close()
		repos.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(repos.Chunks, provider, vectors,
		search.WithCache(searchCache))
	if err != nil {
		proc.Release()
		provider.Close()
		repos.Close()
		backend.Close()
		return nil, err
	}

	return &Library{
		cfg:      cfg,
		backend:  backend,
		repos:    repos,
		provider: provider,
		vectors:  vectors,
		cache:    searchCache,
		pipeline: proc,
		searcher: searcher,
		logger:   slog.Default().With("component", "library"),
	}, nil
}

// buildVectorStore constructs the configured vector store. An unknown or
// "none" type degrades to a no-op index rather than failing startup.
func buildVectorStore(cfg *config.AppConfig) (vectorstore.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "qdrant":
		qcfg := cfg.VectorStore.Qdrant
		if qcfg == nil {
			qcfg = &config.QdrantConfig{URL: "http://localhost:6333", Collection: "studyowl", TimeoutSecs: 15}
		}
		store := qdrant.NewStore(qdrant.Config{
			URL:        qcfg.URL,
			APIKey:     os.Getenv(qcfg.APIKeyEnv),
			Collection: qcfg.Collection,
			Timeout:    time.Duration(qcfg.TimeoutSecs) * time.Second,
		})
		if qcfg.Dimension > 0 {
			if err := store.Init(context.Background(), qcfg.Dimension); err != nil {
				return nil, err
			}
		}
		return store, nil
	case "memory":
		return memory.NewStore(), nil
	default:
		return vectorstore.NewNoop(), nil
	}
}

// Ingest stores a document and processes it asynchronously. The returned
// document carries the pending status; poll Document for the outcome.
func (l *Library) Ingest(ctx context.Context, name, mimeType string, content []byte) (*core.Document, error) {
	return l.pipeline.Ingest(ctx, name, mimeType, content)
}

// IngestSync stores a document and processes it before returning.
func (l *Library) IngestSync(ctx context.Context, name, mimeType string, content []byte) (*core.Document, error) {
	doc := &core.Document{
		Id:       core.NewDocumentID(content),
		Name:     name,
		MimeType: mimeType,
		Status:   core.StatusPending,
	}
	if err := l.repos.Documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}
	if err := l.pipeline.Process(ctx, doc.Id, content); err != nil {
		return doc, err
	}
	return l.repos.Documents.GetDocument(ctx, doc.Id)
}

// Retrieve returns document chunks ranked by similarity to the query,
// plus the assembled context string.
func (l *Library) Retrieve(ctx context.Context, docID core.DocumentID, query string, maxHits int) (*search.Result, error) {
	return l.searcher.Retrieve(ctx, docID, query, maxHits)
}

// RetrieveWithMonitor runs Retrieve with stage callbacks.
func (l *Library) RetrieveWithMonitor(ctx context.Context, docID core.DocumentID, query string, maxHits int, monitor search.Monitor) (*search.Result, error) {
	return l.searcher.RetrieveWithMonitor(ctx, docID, query, maxHits, monitor)
}

// Document returns a stored document by id.
func (l *Library) Document(ctx context.Context, id core.DocumentID) (*core.Document, error) {
	return l.repos.Documents.GetDocument(ctx, id)
}

// Documents lists all stored documents.
func (l *Library) Documents(ctx context.Context) ([]*core.Document, error) {
	return l.repos.Documents.ListDocuments(ctx)
}

// Chapters returns a document's chapters ordered by number.
func (l *Library) Chapters(ctx context.Context, id core.DocumentID) ([]*core.Chapter, error) {
	return l.repos.Chapters.GetChapters(ctx, id)
}

// Concepts returns a document's extracted concepts.
func (l *Library) Concepts(ctx context.Context, id core.DocumentID) ([]*core.Concept, error) {
	return l.repos.Concepts.GetConceptsByDocument(ctx, id)
}

// DeleteDocument removes a document and everything derived from it: the
// record, chapters, concepts, stored chunks, indexed vectors and cached
// search results.
func (l *Library) DeleteDocument(ctx context.Context, id core.DocumentID) error {
	if err := l.repos.Documents.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if err := l.repos.Chapters.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	if err := l.repos.Concepts.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	if err := l.repos.Chunks.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	if err := l.vectors.DeleteByFilter(ctx, vectorstore.Filter{DocumentID: id}); err != nil {
		return err
	}
	l.cache.Invalidate(id)
	return nil
}

// NewReindexer creates a reindexer that rebuilds vector indexes from the
// chunk lookup table. progress is typically os.Stderr.
func (l *Library) NewReindexer(progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(l.repos.Documents, l.repos.Chunks, l.provider.Embedder(), l.vectors, nil, progress)
}

// DocumentRepository exposes the document repository.
func (l *Library) DocumentRepository() storage.DocumentRepository {
	return l.repos.Documents
}

// ChunkRepository exposes the chunk lookup table.
func (l *Library) ChunkRepository() storage.ChunkRepository {
	return l.repos.Chunks
}

// Close tears down the library in dependency order.
func (l *Library) Close() error {
	l.pipeline.Release()

	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}
	if err := l.repos.Close(); err != nil {
		l.logger.Error("error closing repositories", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
