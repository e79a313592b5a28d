package search

import (
	"github.com/poiesic/docquery/core"
)

// QueryMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps during a query.
type QueryMonitor interface {
	Start(question string)
	AfterEmbedding(vector []float32)
	AfterVectorSearch(results []*core.SearchResult)
	Finish(passages []core.Passage)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterEmbedding(_ []float32)               {}
func (n *noopMonitor) AfterVectorSearch(_ []*core.SearchResult) {}
func (n *noopMonitor) Finish(_ []core.Passage)                  {}
