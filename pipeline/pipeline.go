package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/studyowl/studyowl/ai"
	"github.com/studyowl/studyowl/cache"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/extract"
	"github.com/studyowl/studyowl/retry"
	"github.com/studyowl/studyowl/splitter"
	"github.com/studyowl/studyowl/storage"
	"github.com/studyowl/studyowl/vectorstore"
)

const (
	// DefaultChunkSize is the default chunk length in words.
	DefaultChunkSize = 300

	// DefaultOverlap is the default number of words consecutive chunks share.
	DefaultOverlap = 50

	// DefaultEnrichmentInterval is the default minimum spacing between
	// enrichment calls within one document.
	DefaultEnrichmentInterval = 1500 * time.Millisecond

	// DefaultSummaryPrefixWords bounds the text prefix used for the
	// whole-document summary.
	DefaultSummaryPrefixWords = 2000

	// DefaultQuestionCount is the default number of practice questions
	// requested per chapter.
	DefaultQuestionCount = 5
)

// Pipeline orchestrates document processing from raw bytes to a queryable
// knowledge base. It exclusively owns document status transitions.
type Pipeline struct {
	documents storage.DocumentRepository
	chapters  storage.ChapterRepository
	concepts  storage.ConceptRepository
	chunks    storage.ChunkRepository
	provider  ai.AIProvider
	vectors   vectorstore.VectorStore
	cache     *cache.SearchCache

	extractor *extract.Extractor
	splitter  *splitter.Splitter
	pool      *ants.Pool
	limiter   *rate.Limiter
	retry     retry.Policy

	chunkSize          int
	overlap            int
	questionCount      int
	summaryPrefixWords int
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document
// processing. Default is runtime.NumCPU() / 2, with a minimum of 1.
// Enrichment within one document stays sequential regardless of pool size.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunking sets the chunk size and overlap in words.
func WithChunking(chunkSize, overlap int) Option {
	return func(p *Pipeline) error {
		p.chunkSize = chunkSize
		p.overlap = overlap
		return nil
	}
}

// WithEnrichmentInterval sets the minimum spacing between enrichment calls
// within one document. The spacing exists to stay under provider rate
// limits, not for correctness.
func WithEnrichmentInterval(interval time.Duration) Option {
	return func(p *Pipeline) error {
		if interval > 0 {
			p.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
		return nil
	}
}

// WithQuestionCount sets the number of practice questions per chapter.
func WithQuestionCount(count int) Option {
	return func(p *Pipeline) error {
		if count > 0 {
			p.questionCount = count
		}
		return nil
	}
}

// WithRetryPolicy sets the retry policy applied to provider and vector
// store calls. Default is retry.DefaultPolicy().
func WithRetryPolicy(policy retry.Policy) Option {
	return func(p *Pipeline) error {
		p.retry = policy
		return nil
	}
}

// WithCache sets the search cache to invalidate when a document is
// reprocessed. Optional.
func WithCache(c *cache.SearchCache) Option {
	return func(p *Pipeline) error {
		p.cache = c
		return nil
	}
}

// WithSummaryPrefixWords bounds the text prefix used for the
// whole-document summary.
func WithSummaryPrefixWords(words int) Option {
	return func(p *Pipeline) error {
		if words > 0 {
			p.summaryPrefixWords = words
		}
		return nil
	}
}

// NewPipeline creates a new processing pipeline. A nil vector store
// degrades to a no-op index: documents still process but carry no search
// capability.
func NewPipeline(
	documents storage.DocumentRepository,
	chapters storage.ChapterRepository,
	concepts storage.ConceptRepository,
	chunks storage.ChunkRepository,
	provider ai.AIProvider,
	vectors vectorstore.VectorStore,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chapters == nil {
		return nil, ErrChapterRepositoryRequired
	}
	if concepts == nil {
		return nil, ErrConceptRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if vectors == nil {
		vectors = vectorstore.NewNoop()
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents:          documents,
		chapters:           chapters,
		concepts:           concepts,
		chunks:             chunks,
		provider:           provider,
		vectors:            vectors,
		extractor:          extract.NewExtractor(),
		pool:               pool,
		limiter:            rate.NewLimiter(rate.Every(DefaultEnrichmentInterval), 1),
		retry:              retry.DefaultPolicy(),
		chunkSize:          DefaultChunkSize,
		overlap:            DefaultOverlap,
		questionCount:      DefaultQuestionCount,
		summaryPrefixWords: DefaultSummaryPrefixWords,
		logger:             slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	split, err := splitter.New(p.chunkSize, p.overlap)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.splitter = split

	return p, nil
}

// Ingest stores a document record and submits it for asynchronous
// processing. The document id is derived from the content, so ingesting
// identical bytes reprocesses the same document instead of duplicating it.
// Processing errors are logged, not returned; callers observe the outcome
// through the document status.
func (p *Pipeline) Ingest(ctx context.Context, name, mimeType string, content []byte) (*core.Document, error) {
	doc := &core.Document{
		Id:       core.NewDocumentID(content),
		Name:     name,
		MimeType: mimeType,
		Status:   core.StatusPending,
	}

	if err := p.documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}

	buf := make([]byte, len(content))
	copy(buf, content)

	err := p.pool.Submit(func() {
		if err := p.Process(context.Background(), doc.Id, buf); err != nil {
			p.logger.Error("document processing failed", "document", doc.Id, "err", err)
		}
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
