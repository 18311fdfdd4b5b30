// Copyright 2025 Poiesic Systems
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

package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/sitesearch/ai"
)

// RankFunc is the signature of ai.Ranker.Rank.
type RankFunc func(ctx context.Context, query string, candidates []ai.Candidate, limit int) ([]string, error)

// MockRanker is a test double for ai.Ranker.
// It is safe for concurrent use.
type MockRanker struct {
	// RankFunc is called by Rank if set.
	// If nil, Rank returns the candidate IDs in the order given, up to limit.
	RankFunc RankFunc

	callCount  atomic.Int64
	mu         sync.Mutex
	candidates []ai.Candidate
}

var _ ai.Ranker = (*MockRanker)(nil)

// NewMockRanker creates a mock ranker with default behavior.
func NewMockRanker() *MockRanker {
	return &MockRanker{}
}

// WithRankFunc sets a custom ranking function.
func (m *MockRanker) WithRankFunc(fn RankFunc) *MockRanker {
	m.RankFunc = fn
	return m
}

// WithIDs makes Rank return ids unchanged, ignoring candidates and limit.
func (m *MockRanker) WithIDs(ids ...string) *MockRanker {
	return m.WithRankFunc(func(context.Context, string, []ai.Candidate, int) ([]string, error) {
		return append([]string(nil), ids...), nil
	})
}

// WithError makes Rank fail with err.
func (m *MockRanker) WithError(err error) *MockRanker {
	return m.WithRankFunc(func(context.Context, string, []ai.Candidate, int) ([]string, error) {
		return nil, err
	})
}

// Rank records the call and delegates to RankFunc or the default behavior.
func (m *MockRanker) Rank(ctx context.Context, query string, candidates []ai.Candidate, limit int) ([]string, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.candidates = append([]ai.Candidate(nil), candidates...)
	m.mu.Unlock()

	if m.RankFunc != nil {
		return m.RankFunc(ctx, query, candidates, limit)
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if len(ids) >= limit {
			break
		}
		ids = append(ids, c.ID)
	}
	if len(ids) == 0 {
		return nil, ai.ErrNoRanking
	}
	return ids, nil
}

// CallCount returns the number of times Rank was called.
func (m *MockRanker) CallCount() int {
	return int(m.callCount.Load())
}

// LastCandidates returns a copy of the candidates passed to the most recent call.
func (m *MockRanker) LastCandidates() []ai.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.Candidate(nil), m.candidates...)
}

// Reset clears the call count, recorded candidates and custom function.
func (m *MockRanker) Reset() {
	m.callCount.Store(0)
	m.mu.Lock()
	m.candidates = nil
	m.mu.Unlock()
	m.RankFunc = nil
}
