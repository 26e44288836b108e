package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studyowl/studyowl/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder  embeddings.Embedder
	batchSize int
	logger    *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.APIKey),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:  embedder,
		batchSize: config.EmbeddingBatchSize,
		logger:    slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vecs, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		if isInputTooLarge(err) {
			return nil, fmt.Errorf("%w: %w", ai.ErrInputTooLarge, err)
		}
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vecs) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return vecs[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Inputs are split into sub-batches of at most the configured batch size.
// When a sub-batch fails, each of its texts is retried individually so one
// bad item degrades only its own slot; failed slots are nil in the result.
// An error is returned only when every text in the input failed.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	result := make([][]float32, len(texts))
	var succeeded int
	var lastErr error

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		batch := texts[start:end]

		vecs, err := e.embedder.EmbedDocuments(ctx, batch)
		if err == nil && len(vecs) == len(batch) {
			copy(result[start:end], vecs)
			succeeded += len(batch)
			continue
		}
		if err != nil {
			e.logger.Warn("batch embedding failed, retrying items individually",
				"batch_start", start, "batch_size", len(batch), "err", err)
		}

		for i, text := range batch {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			vec, err := e.EmbedText(ctx, text)
			if err != nil {
				lastErr = err
				e.logger.Warn("skipping text that failed to embed",
					"index", start+i, "err", err)
				continue
			}
			result[start+i] = vec
			succeeded++
		}
	}

	if succeeded == 0 && len(texts) > 0 {
		return nil, lastErr
	}
	return result, nil
}

// isInputTooLarge recognizes provider responses for over-limit inputs.
// These are surfaced as ai.ErrInputTooLarge so callers skip the item
// instead of retrying it.
func isInputTooLarge(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "413") ||
		strings.Contains(msg, "payload too large") ||
		strings.Contains(msg, "maximum context length") ||
		strings.Contains(msg, "context length exceeded") ||
		strings.Contains(msg, "input is too long")
}
