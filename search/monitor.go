package search

import (
	"time"

	"github.com/poiesic/sitesearch/core"
)

// Strategy names the path that produced a result list.
type Strategy string

const (
	// StrategySemantic means the remote ranker ordered the results.
	StrategySemantic Strategy = "semantic"
	// StrategyKeyword means keyword scoring produced the results.
	StrategyKeyword Strategy = "keyword"
	// StrategyNone means the query had no terms and nothing was searched.
	StrategyNone Strategy = "none"
)

// Reasons passed to SearchMonitor.SemanticSkipped.
const (
	SkipNotConfigured = "not_configured"
	SkipNoCandidates  = "no_candidates"
)

// SearchMonitor provides hooks to observe the search process.
// Implementations must be safe for concurrent use; one monitor observes every call.
type SearchMonitor interface {
	Start(query string, limit int)
	SnapshotBuilt(items int, failedSources []string)
	SemanticSkipped(reason string)
	SemanticFailed(err error)
	SemanticRanked(ids []string)
	Fallback(results []core.SearchResult)
	Finish(strategy Strategy, results []core.SearchResult, elapsed time.Duration)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                                     {}
func (n *noopMonitor) SnapshotBuilt(_ int, _ []string)                           {}
func (n *noopMonitor) SemanticSkipped(_ string)                                  {}
func (n *noopMonitor) SemanticFailed(_ error)                                    {}
func (n *noopMonitor) SemanticRanked(_ []string)                                 {}
func (n *noopMonitor) Fallback(_ []core.SearchResult)                            {}
func (n *noopMonitor) Finish(_ Strategy, _ []core.SearchResult, _ time.Duration) {}
