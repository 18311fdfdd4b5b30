package core

import (
	"fmt"
	"strings"
)

// forbiddenSlugKeywords mark example, test or draft content that must never be published.
var forbiddenSlugKeywords = []string{"example", "test", "draft", "sample", "template", "placeholder"}

// IsForbiddenSlug reports whether slug contains any keyword that marks
// unpublishable content. Matching is case-insensitive and substring based.
func IsForbiddenSlug(slug string) bool {
	lower := strings.ToLower(slug)
	for _, kw := range forbiddenSlugKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ValidateContentItem validates a ContentItem according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty
//   - Kind must be article or section
//
// Description, Category and Tags may be empty.
func ValidateContentItem(item *ContentItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidContentItem)
	}
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptyID)
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptyTitle)
	}
	if err := ValidateKind(item.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, err)
	}
	return nil
}

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - Slug must not be empty
//   - Slug must not be forbidden (see IsForbiddenSlug)
//   - Title must not be empty
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}
	if strings.TrimSpace(article.Slug) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptySlug)
	}
	if IsForbiddenSlug(article.Slug) {
		return fmt.Errorf("%w: %w: %s", ErrInvalidArticle, ErrForbiddenSlug, article.Slug)
	}
	if strings.TrimSpace(article.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyTitle)
	}
	return nil
}

// ValidateKind validates that a Kind has a known value.
func ValidateKind(kind Kind) error {
	if kind != KindArticle && kind != KindSection {
		return fmt.Errorf("%w: value %q", ErrInvalidKind, kind)
	}
	return nil
}
