package search

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/sitesearch/ai"
	"github.com/poiesic/sitesearch/core"
)

const (
	// DefaultCandidateWindow caps the number of candidates sent to the ranker.
	DefaultCandidateWindow = 50
	// DefaultRankTimeout bounds a single ranking call.
	DefaultRankTimeout = 10 * time.Second
)

// SemanticRanker wraps an ai.Ranker with candidate selection, a deadline and
// validation of the untrusted output.
type SemanticRanker struct {
	ranker  ai.Ranker
	window  int
	timeout time.Duration
}

// NewSemanticRanker creates a SemanticRanker. Non-positive window or timeout
// select the defaults.
func NewSemanticRanker(ranker ai.Ranker, window int, timeout time.Duration) (*SemanticRanker, error) {
	if ranker == nil {
		return nil, ErrRankerRequired
	}
	if window <= 0 {
		window = DefaultCandidateWindow
	}
	if timeout <= 0 {
		timeout = DefaultRankTimeout
	}
	return &SemanticRanker{
		ranker:  ranker,
		window:  window,
		timeout: timeout,
	}, nil
}

// Candidates selects at most window items, sections first and then articles,
// each group in catalog order, and reduces them to ranker candidates.
func Candidates(items []core.ContentItem, window int) []ai.Candidate {
	out := make([]ai.Candidate, 0, min(window, len(items)))
	for _, kind := range []core.Kind{core.KindSection, core.KindArticle} {
		for _, item := range items {
			if len(out) >= window {
				return out
			}
			if item.Kind != kind {
				continue
			}
			out = append(out, ai.NewCandidate(item.ID, item.Title, item.Description, item.Category))
		}
	}
	return out
}

type rankOutcome struct {
	ids []string
	err error
}

// Rank returns at most limit identifiers drawn from the candidate window,
// most relevant first, with empties and duplicates removed.
//
// Every failure mode (service error, malformed output, timeout, nothing
// usable left after filtering) is returned as an error; ai.ErrNoRanking marks
// the empty cases.
func (s *SemanticRanker) Rank(ctx context.Context, query string, items []core.ContentItem, limit int) ([]string, error) {
	candidates := Candidates(items, s.window)
	if len(candidates) == 0 || limit <= 0 {
		return nil, ai.ErrNoRanking
	}

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan rankOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- rankOutcome{err: fmt.Errorf("%w: %v", ErrRankPanic, r)}
			}
		}()
		ids, err := s.ranker.Rank(rctx, query, candidates, limit)
		done <- rankOutcome{ids: ids, err: err}
	}()

	var out rankOutcome
	select {
	case out = <-done:
	case <-rctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrRankTimeout, rctx.Err())
	}
	if out.err != nil {
		return nil, out.err
	}

	ids := filterIDs(out.ids, candidates, limit)
	if len(ids) == 0 {
		return nil, ai.ErrNoRanking
	}
	return ids, nil
}

// filterIDs keeps non-empty identifiers that were offered as candidates,
// first occurrence only, in the given order, capped at limit.
func filterIDs(ids []string, candidates []ai.Candidate, limit int) []string {
	offered := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		offered[c.ID] = true
	}

	out := make([]string, 0, min(limit, len(ids)))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if len(out) >= limit {
			break
		}
		if id == "" || seen[id] || !offered[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
