package search

import "strings"

// queryTerms lower-cases the query and splits it on whitespace.
// Repeated terms are kept once, in first-seen order.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

// countTerms sums the non-overlapping substring occurrences of every term in
// surface. A term inside a longer word counts.
func countTerms(surface string, terms []string) int {
	total := 0
	for _, term := range terms {
		total += strings.Count(surface, term)
	}
	return total
}
