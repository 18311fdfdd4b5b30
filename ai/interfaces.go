package ai

import "context"

// MaxCandidateDescription is the longest description, in runes, sent to a ranker.
const MaxCandidateDescription = 300

// Candidate is the reduced view of a content item offered to a ranker.
// Tags are not sent.
type Candidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// NewCandidate builds a Candidate, truncating the description to
// MaxCandidateDescription runes.
func NewCandidate(id, title, description, category string) Candidate {
	if r := []rune(description); len(r) > MaxCandidateDescription {
		description = string(r[:MaxCandidateDescription])
	}
	return Candidate{
		ID:          id,
		Title:       title,
		Description: description,
		Category:    category,
	}
}

// Ranker orders candidates by relevance to a query using a remote model.
// Implementations must be thread-safe for concurrent use.
type Ranker interface {
	// Rank returns at most limit candidate identifiers, most relevant first.
	// The output is untrusted: it may contain duplicates or identifiers that
	// were never offered, and callers must filter it.
	// Returns ErrNoRanking when the service answered with no identifiers.
	Rank(ctx context.Context, query string, candidates []Candidate, limit int) ([]string, error)
}
