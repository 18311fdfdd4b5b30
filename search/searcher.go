package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/sitesearch/ai"
	"github.com/poiesic/sitesearch/catalog"
	"github.com/poiesic/sitesearch/core"
)

const (
	// DefaultLimit applies when the caller passes a non-positive limit.
	DefaultLimit = 10
	// DefaultMaxLimit caps caller supplied limits.
	DefaultMaxLimit = 50
)

// SnapshotBuilder produces the per-request catalog. *catalog.Builder implements it.
type SnapshotBuilder interface {
	Build(ctx context.Context) *catalog.Snapshot
}

// Outcome is the full answer to one search call.
type Outcome struct {
	Query    string
	Limit    int
	Strategy Strategy
	Results  []core.SearchResult
	// FailedSources lists content sources that did not contribute.
	FailedSources []string
}

// Searcher answers queries over a fresh catalog snapshot, using the remote
// ranker when one is configured and keyword scoring otherwise or on any
// ranking failure.
type Searcher struct {
	builder      SnapshotBuilder
	ranker       ai.Ranker
	semantic     *SemanticRanker
	monitor      SearchMonitor
	defaultLimit int
	maxLimit     int
	window       int
	rankTimeout  time.Duration
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRanker enables semantic ranking. A nil ranker leaves it disabled.
func WithRanker(ranker ai.Ranker) Option {
	return func(s *Searcher) error {
		s.ranker = ranker
		return nil
	}
}

// WithMonitor sets the observer notified at each stage of every search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithDefaultLimit sets the limit used when callers pass a non-positive one.
func WithDefaultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			return fmt.Errorf("default limit must be positive, got %d", limit)
		}
		s.defaultLimit = limit
		return nil
	}
}

// WithMaxLimit sets the largest limit honoured; larger values are clamped.
func WithMaxLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			return fmt.Errorf("max limit must be positive, got %d", limit)
		}
		s.maxLimit = limit
		return nil
	}
}

// WithCandidateWindow sets how many items are offered to the ranker.
func WithCandidateWindow(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return fmt.Errorf("candidate window must be positive, got %d", n)
		}
		s.window = n
		return nil
	}
}

// WithRankTimeout bounds each ranking call.
func WithRankTimeout(d time.Duration) Option {
	return func(s *Searcher) error {
		if d <= 0 {
			return fmt.Errorf("rank timeout must be positive, got %s", d)
		}
		s.rankTimeout = d
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(builder SnapshotBuilder, opts ...Option) (*Searcher, error) {
	if builder == nil {
		return nil, ErrBuilderRequired
	}

	s := &Searcher{
		builder:      builder,
		monitor:      &noopMonitor{},
		defaultLimit: DefaultLimit,
		maxLimit:     DefaultMaxLimit,
		window:       DefaultCandidateWindow,
		rankTimeout:  DefaultRankTimeout,
		logger:       slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}

	if s.ranker != nil {
		semantic, err := NewSemanticRanker(s.ranker, s.window, s.rankTimeout)
		if err != nil {
			return nil, err
		}
		s.semantic = semantic
	}

	return s, nil
}

// SemanticEnabled reports whether a ranker is configured.
func (s *Searcher) SemanticEnabled() bool {
	return s != nil && s.semantic != nil
}

// NormalizeLimit maps a caller supplied limit onto [1, max limit].
func (s *Searcher) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// Search returns up to limit results for query, best strategy available.
// Collaborator failures never surface: the error is non-nil only for a nil
// searcher or a context that was already done before the search began.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	outcome, err := s.Run(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return outcome.Results, nil
}

// Run is Search with the strategy and degraded sources reported alongside the results.
func (s *Searcher) Run(ctx context.Context, query string, limit int) (*Outcome, error) {
	if s == nil {
		return nil, ErrSearcherRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	limit = s.NormalizeLimit(limit)
	outcome := &Outcome{Query: query, Limit: limit, Results: []core.SearchResult{}}
	s.monitor.Start(query, limit)

	if len(queryTerms(query)) == 0 {
		outcome.Strategy = StrategyNone
		s.monitor.Finish(outcome.Strategy, outcome.Results, time.Since(start))
		return outcome, nil
	}

	snapshot := s.builder.Build(ctx)
	if snapshot == nil {
		snapshot = catalog.NewSnapshot()
	}
	outcome.FailedSources = snapshot.FailedSources
	s.monitor.SnapshotBuilt(snapshot.Len(), snapshot.FailedSources)

	if results, ok := s.trySemantic(ctx, query, snapshot, limit); ok {
		outcome.Strategy = StrategySemantic
		outcome.Results = results
	} else {
		outcome.Strategy = StrategyKeyword
		outcome.Results = KeywordScore(query, snapshot.Items, limit)
		s.monitor.Fallback(outcome.Results)
	}

	s.logger.Debug("search complete",
		"query", query,
		"strategy", outcome.Strategy,
		"results", len(outcome.Results),
		"items", snapshot.Len())
	s.monitor.Finish(outcome.Strategy, outcome.Results, time.Since(start))
	return outcome, nil
}

// trySemantic is the single decision point between semantic results and the
// keyword fallback: ok is true only when at least one ranked item survives
// reassembly.
func (s *Searcher) trySemantic(ctx context.Context, query string, snapshot *catalog.Snapshot, limit int) ([]core.SearchResult, bool) {
	if s.semantic == nil {
		s.monitor.SemanticSkipped(SkipNotConfigured)
		return nil, false
	}
	if snapshot.Len() == 0 {
		s.monitor.SemanticSkipped(SkipNoCandidates)
		return nil, false
	}

	ids, err := s.semantic.Rank(ctx, query, snapshot.Items, limit)
	if err != nil {
		s.logger.Warn("semantic ranking failed, falling back to keyword scoring", "err", err)
		s.monitor.SemanticFailed(err)
		return nil, false
	}
	s.monitor.SemanticRanked(ids)

	results := reassemble(ids, snapshot)
	if len(results) == 0 {
		s.logger.Warn("ranked identifiers matched no catalog items, falling back to keyword scoring")
		s.monitor.SemanticFailed(ai.ErrNoRanking)
		return nil, false
	}
	return results, true
}

// reassemble maps ranked identifiers back to catalog items. Position i of n
// scores n-i. Unknown identifiers are dropped.
func reassemble(ids []string, snapshot *catalog.Snapshot) []core.SearchResult {
	results := make([]core.SearchResult, 0, len(ids))
	for i, id := range ids {
		item, ok := snapshot.Lookup(id)
		if !ok {
			continue
		}
		results = append(results, core.NewSearchResult(item, float64(len(ids)-i)))
	}
	return results
}
