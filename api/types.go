package api

import (
	"time"

	"github.com/poiesic/sitesearch/core"
)

// FormatCompact selects the compact result view.
const FormatCompact = "compact"

// SearchRequest is the POST body of /api/v1/search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Format string `json:"format,omitempty"`
}

// SearchResponse is returned by both GET and POST /api/v1/search.
// Results holds []core.SearchResult, or []CompactResult in compact format.
type SearchResponse struct {
	Query         string   `json:"query"`
	Strategy      string   `json:"strategy"`
	Count         int      `json:"count"`
	Results       any      `json:"results"`
	FailedSources []string `json:"failedSources,omitempty"`
}

// CompactResult is the reduced result view used by chat tools.
type CompactResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}

// Compact reduces results to the compact view.
func Compact(results []core.SearchResult) []CompactResult {
	out := make([]CompactResult, len(results))
	for i, r := range results {
		out[i] = CompactResult{
			Title:       r.Item.Title,
			Description: r.Item.Description,
			URL:         r.Item.ID,
			Category:    r.Item.Category,
		}
	}
	return out
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Semantic bool   `json:"semantic"`
}
