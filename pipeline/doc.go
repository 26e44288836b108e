// Package pipeline drives a document from raw bytes to a queryable
// knowledge base.
//
// The Pipeline type owns document status transitions and runs the stage
// sequence per document:
//   - text extraction (mandatory; failure is fatal)
//   - chapter detection with a synthetic single-chapter fallback
//   - per-chapter enrichment: summaries, practice questions, key concepts
//   - chunking, embedding and vector indexing
//   - whole-document summary from a bounded text prefix
//
// Documents process concurrently on a worker pool, but enrichment within
// one document is strictly sequential and rate limited. Every stage after
// extraction is failure tolerant: a failed sub-step stores a fallback
// value and the document still reaches the ready status.
package pipeline
