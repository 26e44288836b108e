package ai

import (
	"context"

	"github.com/studyowl/studyowl/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input
	// texts. Items that could not be embedded are nil in the returned slice;
	// an error is returned only when the whole batch failed.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer produces natural-language summaries of document text.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize generates a summary of text at the requested detail level:
	// brief (2-3 sentences), standard (one paragraph), or detailed
	// (multiple paragraphs).
	Summarize(ctx context.Context, text string, level core.DetailLevel) (string, error)
}

// QuestionGenerator produces practice questions from document text.
// Implementations must be thread-safe for concurrent use.
type QuestionGenerator interface {
	// GenerateQuestions generates up to count practice questions with answers
	// covering the given text. Returns an empty slice if the text yields no
	// usable questions.
	GenerateQuestions(ctx context.Context, text string, count int) ([]core.PracticeQuestion, error)
}

// ConceptExtractor extracts key terms and definitions from text.
// Implementations must be thread-safe for concurrent use.
type ConceptExtractor interface {
	// ExtractConcepts analyzes text and extracts the key terms a student
	// should know, each with a definition and a category.
	// Returns an empty slice if no concepts are found.
	// Returns an error if concept extraction fails.
	ExtractConcepts(ctx context.Context, text string) ([]ExtractedConcept, error)
}

// ExtractedConcept represents a key term identified in text, before it is
// bound to a document and chapter.
type ExtractedConcept struct {
	// Term is the concept identifier, 1-4 words.
	// Example: "second law of thermodynamics", "entropy"
	Term string

	// Definition is a one or two sentence explanation of the term as it is
	// used in the source text.
	Definition string

	// Category classifies the concept. Values outside
	// core.ConceptCategories are folded to "other".
	Category string
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the embedding and generation services,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// QuestionGenerator returns the practice question service.
	QuestionGenerator() QuestionGenerator

	// ConceptExtractor returns the concept extraction service.
	ConceptExtractor() ConceptExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
