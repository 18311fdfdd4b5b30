package search

import "errors"

var (
	// ErrBuilderRequired is returned when a snapshot builder is not provided.
	ErrBuilderRequired = errors.New("snapshot builder required")

	// ErrRankerRequired is returned when a semantic ranker is created without a ranker.
	ErrRankerRequired = errors.New("ranker required")

	// ErrSearcherRequired is returned when Search is called on a nil Searcher.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrRankTimeout is returned when the ranking call misses its deadline.
	ErrRankTimeout = errors.New("ranking timed out")

	// ErrRankPanic is returned when a ranker panics.
	ErrRankPanic = errors.New("ranker panicked")
)
