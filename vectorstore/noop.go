package vectorstore

import (
	"context"
	"log/slog"
)

// Noop is the store used when no vector index is configured. Every
// operation succeeds without effect, so ingestion and retrieval keep
// working in a reduced capacity: documents still get summaries, questions
// and concepts, but semantic search returns no context.
type Noop struct {
	logger *slog.Logger
}

// NewNoop returns a no-op vector store.
func NewNoop() *Noop {
	return &Noop{
		logger: slog.Default().With("component", "vectorstore-noop"),
	}
}

// Upsert discards the records.
func (n *Noop) Upsert(ctx context.Context, records []Record) error {
	n.logger.Debug("vector store not configured, discarding records", "count", len(records))
	return nil
}

// Query returns no matches.
func (n *Noop) Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error) {
	n.logger.Debug("vector store not configured, returning empty result")
	return nil, nil
}

// DeleteByFilter does nothing.
func (n *Noop) DeleteByFilter(ctx context.Context, filter Filter) error {
	return nil
}
