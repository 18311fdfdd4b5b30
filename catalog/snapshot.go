package catalog

import "github.com/poiesic/sitesearch/core"

// Snapshot is the searchable universe for a single request.
// It is never modified after Build returns and is not shared between requests.
type Snapshot struct {
	// Items holds long-form items followed by sections, IDs unique.
	Items []core.ContentItem

	// FailedSources names the sources that contributed nothing because they
	// failed or timed out.
	FailedSources []string

	index map[string]int
}

func newSnapshot(items []core.ContentItem, failed []string) *Snapshot {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item.ID] = i
	}
	return &Snapshot{
		Items:         items,
		FailedSources: failed,
		index:         index,
	}
}

// NewSnapshot builds a snapshot over items. Later duplicates of an ID are
// dropped. Intended for tests and callers that assemble items themselves.
func NewSnapshot(items ...core.ContentItem) *Snapshot {
	seen := make(map[string]struct{}, len(items))
	kept := make([]core.ContentItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		kept = append(kept, item)
	}
	return newSnapshot(kept, nil)
}

// Len returns the number of items.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Lookup finds an item by ID.
func (s *Snapshot) Lookup(id string) (core.ContentItem, bool) {
	if s == nil {
		return core.ContentItem{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return core.ContentItem{}, false
	}
	return s.Items[i], true
}

// Degraded reports whether any source failed during the build.
func (s *Snapshot) Degraded() bool {
	return s != nil && len(s.FailedSources) > 0
}
