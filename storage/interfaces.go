package storage

import (
	"context"

	"github.com/poiesic/sitesearch/core"
)

// ArticleRepository provides operations for managing long-form articles.
// Implementations must be thread-safe and support concurrent access.
type ArticleRepository interface {
	// PutArticles inserts or replaces articles keyed by slug.
	// Every article is validated before anything is written.
	PutArticles(ctx context.Context, articles ...*core.Article) error

	// DeleteArticles removes articles by slug.
	// Returns ErrNotFound if any article doesn't exist.
	DeleteArticles(ctx context.Context, slugs ...string) error

	// GetArticle retrieves a single article by slug.
	// Returns ErrNotFound if the article doesn't exist.
	GetArticle(ctx context.Context, slug string) (*core.Article, error)

	// ListArticles returns every stored article, newest first, ties broken by slug.
	ListArticles(ctx context.Context) ([]*core.Article, error)

	// Close releases resources held by the repository.
	Close() error
}
