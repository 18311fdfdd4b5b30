package core

import (
	"cmp"
	"encoding/binary"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Kind discriminates the origin of a ContentItem.
// It is used for display grouping only and never affects ranking.
type Kind string

const (
	// KindArticle is long-form content such as a blog post.
	KindArticle Kind = "article"
	// KindSection is a statically declared site section.
	KindSection Kind = "section"
)

// DefaultArticleCategory is applied to articles that carry no category.
const DefaultArticleCategory = "Blog"

// ContentItem is the unit of search.
// Within one snapshot ID is unique.
type ContentItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Kind        Kind     `json:"kind"`
}

// Surface returns the lower-cased text used for keyword scoring:
// title, description, category and tags, in that order.
func (c ContentItem) Surface() string {
	return strings.ToLower(c.Title + " " + c.Description + " " + c.Category + " " + strings.Join(c.Tags, " "))
}

// SearchResult is a ContentItem with a relevance score.
// Scores order results within a single call and are not comparable across calls
// or across ranking strategies.
type SearchResult struct {
	Item           ContentItem `json:"item"`
	RelevanceScore float64     `json:"relevanceScore"`
	Type           Kind        `json:"type"`
}

// NewSearchResult wraps an item with a score, mirroring its kind into Type.
func NewSearchResult(item ContentItem, score float64) SearchResult {
	return SearchResult{
		Item:           item,
		RelevanceScore: score,
		Type:           item.Kind,
	}
}

// Article is a long-form content record as delivered by a content source.
type Article struct {
	Slug        string
	Title       string
	Excerpt     string
	Description string
	Category    string
	Tags        []string
	PublishedAt time.Time
}

// Summary returns the excerpt, or the description when no excerpt is present.
func (a *Article) Summary() string {
	if a.Excerpt != "" {
		return a.Excerpt
	}
	return a.Description
}

// ContentItem maps the article into the searchable shape.
// routePrefix is prepended to the slug to build the routable identifier.
func (a *Article) ContentItem(routePrefix string) ContentItem {
	category := a.Category
	if category == "" {
		category = DefaultArticleCategory
	}
	return ContentItem{
		ID:          routePrefix + a.Slug,
		Title:       a.Title,
		Description: a.Summary(),
		Category:    category,
		Tags:        append([]string(nil), a.Tags...),
		Kind:        KindArticle,
	}
}

// SortArticles orders articles newest first; ties and undated articles are
// ordered by slug. Undated articles sort after dated ones.
func SortArticles(articles []*Article) {
	slices.SortStableFunc(articles, func(a, b *Article) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}

// Section is a statically declared site section descriptor.
type Section struct {
	Href        string   `yaml:"href"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
}

// ContentItem maps the section into the searchable shape. The href is the identifier.
func (s *Section) ContentItem() ContentItem {
	return ContentItem{
		ID:          s.Href,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Tags:        append([]string(nil), s.Tags...),
		Kind:        KindSection,
	}
}
