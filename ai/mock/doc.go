// Package mock provides test doubles for the ai package interfaces.
//
// MockRanker lets search tests run without a remote service and drive every
// ranking outcome deterministically: success, malformed output, errors and
// slow calls.
//
// # Usage in Tests
//
//	// Default behaviour echoes candidate IDs in order
//	ranker := mock.NewMockRanker()
//
//	// Custom behaviour injection
//	ranker := mock.NewMockRanker().WithIDs("/blog/sciatica", "/about")
//	ranker := mock.NewMockRanker().WithError(errors.New("unavailable"))
//	ranker := mock.NewMockRanker().
//	    WithRankFunc(func(ctx context.Context, q string, c []ai.Candidate, limit int) ([]string, error) {
//	        <-ctx.Done()
//	        return nil, ctx.Err()
//	    })
//
//	// Check call counts
//	count := ranker.CallCount()
package mock
