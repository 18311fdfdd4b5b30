package search

import (
	"slices"

	"github.com/poiesic/sitesearch/core"
)

// KeywordScore ranks items by how often the query terms occur in their
// surface text (see core.ContentItem.Surface).
//
// Items that match no term are dropped. Equal scores keep catalog order.
// A positive limit truncates the result; limit <= 0 returns every match.
// An empty or whitespace-only query yields an empty, non-nil slice.
//
// KeywordScore is pure: the same arguments always produce the same output.
func KeywordScore(query string, items []core.ContentItem, limit int) []core.SearchResult {
	results := []core.SearchResult{}

	terms := queryTerms(query)
	if len(terms) == 0 {
		return results
	}

	for _, item := range items {
		score := countTerms(item.Surface(), terms)
		if score == 0 {
			continue
		}
		results = append(results, core.NewSearchResult(item, float64(score)))
	}

	slices.SortStableFunc(results, func(a, b core.SearchResult) int {
		switch {
		case a.RelevanceScore > b.RelevanceScore:
			return -1
		case a.RelevanceScore < b.RelevanceScore:
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
