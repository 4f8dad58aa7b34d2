package retrieval

import "github.com/poiesic/recall/core"

// FusionMonitor provides hooks to observe the fusion process.
// Implement this interface to track intermediate steps and results during
// multi-query retrieval. Callbacks fire in sub-query order.
type FusionMonitor interface {
	Start(question string, subQueries []string)
	AfterRetrieve(subQuery string, docs []*core.Document)
	RetrieveFailed(subQuery string, err error)
	Finish(fused []*core.Document)
}

// noopMonitor is a no-op implementation of FusionMonitor
type noopMonitor struct{}

var _ FusionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string)                 {}
func (n *noopMonitor) AfterRetrieve(_ string, _ []*core.Document) {}
func (n *noopMonitor) RetrieveFailed(_ string, _ error)           {}
func (n *noopMonitor) Finish(_ []*core.Document)                  {}
