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


package reindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/studyowl/studyowl/ai"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/retry"
	"github.com/studyowl/studyowl/storage"
	"github.com/studyowl/studyowl/vectorstore"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of chunks to embed and upsert per batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// Retry is the policy applied to embedding and upsert calls
	Retry retry.Policy
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		Retry:          retry.DefaultPolicy(),
	}
}

// Reindexer rebuilds vector indexes from stored chunks.
type Reindexer struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	embedder  ai.Embedder
	vectors   vectorstore.VectorStore
	config    *Config
	progress  io.Writer
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	embedder ai.Embedder,
	vectors vectorstore.VectorStore,
	config *Config,
	progress io.Writer,
) (*Reindexer, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		documents: documents,
		chunks:    chunks,
		embedder:  embedder,
		vectors:   vectors,
		config:    config,
		progress:  progress,
	}, nil
}

// Run rebuilds the vector index for one document. Existing vectors of the
// document are deleted first so stale entries from longer prior versions
// do not survive the rebuild.
func (r *Reindexer) Run(ctx context.Context, docID core.DocumentID) error {
	if _, err := r.documents.GetDocument(ctx, docID); err != nil {
		return err
	}

	stored, err := r.chunks.GetChunksByDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}
	if len(stored) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChunks, docID)
	}

	fmt.Fprintf(r.progress, "Reindexing %d chunks of document %s (batch size: %d)\n",
		len(stored), docID, r.config.BatchSize)

	err = r.config.Retry.Do(ctx, func() error {
		return r.vectors.DeleteByFilter(ctx, vectorstore.Filter{DocumentID: docID})
	})
	if err != nil {
		return fmt.Errorf("failed to clear existing vectors: %w", err)
	}

	tracker := NewProgressTracker(r.progress, len(stored), r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < len(stored); start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > len(stored) {
			end = len(stored)
		}

		if err := r.processBatch(ctx, stored[start:end]); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += end - start
		tracker.Update(processed)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		len(stored), elapsed.Round(time.Second), float64(len(stored))/elapsed.Seconds())

	return nil
}

// RunAll rebuilds the vector index for every stored document. Documents
// without chunks are skipped.
func (r *Reindexer) RunAll(ctx context.Context) error {
	docs, err := r.documents.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	for _, doc := range docs {
		if err := r.Run(ctx, doc.Id); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			fmt.Fprintf(r.progress, "Skipping document %s: %v\n", doc.Id, err)
		}
	}
	return nil
}

// processBatch embeds one batch of chunks and upserts the vectors.
// Chunks whose embedding failed are skipped, never blocking the batch.
func (r *Reindexer) processBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	err := r.config.Retry.Do(ctx, func() error {
		var callErr error
		embeddings, callErr = r.embedder.EmbedTexts(ctx, texts)
		return callErr
	})
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	records := make([]vectorstore.Record, 0, len(batch))
	for i, vector := range embeddings {
		if vector == nil {
			continue
		}
		records = append(records, vectorstore.Record{
			ID:     batch[i].ID(),
			Vector: vectorstore.NormalizeVector(vector),
			Metadata: vectorstore.Metadata{
				DocumentID:    batch[i].DocumentId,
				PageNumber:    batch[i].PageNumber,
				ChapterNumber: batch[i].ChapterNumber,
			},
		})
	}
	if len(records) == 0 {
		return nil
	}

	return r.config.Retry.Do(ctx, func() error {
		return r.vectors.Upsert(ctx, records)
	})
}
