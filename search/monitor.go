package search

import (
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/vectorstore"
)

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during retrieval.
type Monitor interface {
	Start(query string)
	CacheHit(results []core.ScoredChunk)
	AfterQueryEmbedding(dimension int)
	AfterVectorSearch(matches []vectorstore.Match)
	ChunkResolved(chunk *core.Chunk, score float32)
	ChunkMissing(id string)
	Finish(results []core.ScoredChunk)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) CacheHit(_ []core.ScoredChunk)          {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)              {}
func (n *noopMonitor) AfterVectorSearch(_ []vectorstore.Match) {}
func (n *noopMonitor) ChunkResolved(_ *core.Chunk, _ float32) {}
func (n *noopMonitor) ChunkMissing(_ string)                  {}
func (n *noopMonitor) Finish(_ []core.ScoredChunk)            {}
