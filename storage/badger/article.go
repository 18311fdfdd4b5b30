package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sitesearch/core"
	"github.com/poiesic/sitesearch/storage"
)

// SourceName is reported by ArticleRepository.Name.
const SourceName = "badger"

// ErrBackendRequired is returned when a repository is created without a backend.
var ErrBackendRequired = errors.New("backend is required")

// ArticleRepository implements storage.ArticleRepository for BadgerDB.
// It also satisfies catalog.Source so the store can feed search directly.
type ArticleRepository struct {
	backend      *Backend
	logger       *slog.Logger
	ownedBackend bool
	closed       atomic.Bool
}

var _ storage.ArticleRepository = (*ArticleRepository)(nil)

// RepositoryOption configures an ArticleRepository.
type RepositoryOption func(*ArticleRepository) error

// WithRepositoryLogger sets the logger for the repository.
func WithRepositoryLogger(logger *slog.Logger) RepositoryOption {
	return func(r *ArticleRepository) error {
		r.logger = logger
		return nil
	}
}

// WithOwnedBackend makes Close also close the backend.
func WithOwnedBackend() RepositoryOption {
	return func(r *ArticleRepository) error {
		r.ownedBackend = true
		return nil
	}
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(backend *Backend, opts ...RepositoryOption) (*ArticleRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	r := &ArticleRepository{
		backend: backend,
		logger:  backend.logger,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name identifies the repository when it is used as a catalog source.
func (r *ArticleRepository) Name() string {
	return SourceName
}

// Close releases resources. The backend is closed only if the repository owns it.
func (r *ArticleRepository) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if r.ownedBackend {
		return r.backend.Close()
	}
	return nil
}

func (r *ArticleRepository) checkOpen() error {
	if r.closed.Load() || r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// PutArticles validates and stores articles, replacing any existing article
// with the same slug. Either all articles are written or none are.
func (r *ArticleRepository) PutArticles(ctx context.Context, articles ...*core.Article) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	for _, article := range articles {
		if err := core.ValidateArticle(article); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, article := range articles {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.Set(makeArticleKey(article.Slug), storage.MarshalArticle(article)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteArticles removes articles by slug. Missing slugs are an error.
func (r *ArticleRepository) DeleteArticles(ctx context.Context, slugs ...string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, slug := range slugs {
			key := makeArticleKey(slug)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: %s", storage.ErrNotFound, slug)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetArticle retrieves a single article by slug.
func (r *ArticleRepository) GetArticle(ctx context.Context, slug string) (*core.Article, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	var result *core.Article
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArticleKey(slug))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalArticle(val)
			return err
		})
	}, false)
	return result, err
}

// ListArticles returns every stored article, newest first, ties broken by slug.
// Records that fail to decode, or whose key does not match their slug, are
// skipped with a warning.
func (r *ArticleRepository) ListArticles(ctx context.Context) ([]*core.Article, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	var result []*core.Article
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = articleScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			var article *core.Article
			err := item.Value(func(val []byte) error {
				var err error
				article, err = storage.UnmarshalArticle(val)
				return err
			})
			if err != nil {
				r.logger.Warn("skipping undecodable article", "key", fmt.Sprintf("%x", item.Key()), "err", err)
				continue
			}
			if id, err := articleKeyID(item.Key()); err != nil || id != core.IDFromContent(article.Slug) {
				r.logger.Warn("skipping article stored under another slug's key", "slug", article.Slug)
				continue
			}
			result = append(result, article)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	core.SortArticles(result)
	return result, nil
}
