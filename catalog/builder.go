package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sitesearch/core"
)

const (
	// DefaultSourceTimeout bounds each source fetch.
	DefaultSourceTimeout = 3 * time.Second
	// DefaultRoutePrefix is prepended to article slugs to form item IDs.
	DefaultRoutePrefix = "/blog/"
)

// Source supplies long-form articles. Implementations must be safe for
// concurrent use and should honour ctx cancellation.
type Source interface {
	// Name identifies the source in logs and Snapshot.FailedSources.
	Name() string
	// ListArticles returns the current articles in the source's preferred order.
	ListArticles(ctx context.Context) ([]*core.Article, error)
}

// Builder assembles a fresh Snapshot per call from the configured sources
// and the section catalog.
type Builder struct {
	sources       []Source
	sections      []core.Section
	pool          *ants.Pool
	sourceTimeout time.Duration
	routePrefix   string
	logger        *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithSources appends long-form sources. Order is preserved in the snapshot.
func WithSources(sources ...Source) Option {
	return func(b *Builder) error {
		for _, src := range sources {
			if src == nil {
				return ErrSourceRequired
			}
		}
		b.sources = append(b.sources, sources...)
		return nil
	}
}

// WithSourceTimeout sets the deadline applied to every source fetch.
// Default is DefaultSourceTimeout.
func WithSourceTimeout(d time.Duration) Option {
	return func(b *Builder) error {
		if d <= 0 {
			return fmt.Errorf("source timeout must be positive, got %s", d)
		}
		b.sourceTimeout = d
		return nil
	}
}

// WithRoutePrefix sets the prefix used to turn article slugs into IDs.
// Default is DefaultRoutePrefix.
func WithRoutePrefix(prefix string) Option {
	return func(b *Builder) error {
		b.routePrefix = prefix
		return nil
	}
}

// WithSections replaces the built-in section catalog.
func WithSections(sections []core.Section) Option {
	return func(b *Builder) error {
		b.sections = cloneSections(sections)
		return nil
	}
}

// WithPoolSize sets the number of concurrent source fetches shared by all
// Build calls. Fetches beyond it wait for a free worker until their deadline.
// Default is runtime.NumCPU(), with a minimum of 4.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := newPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

func newPool(size int) (*ants.Pool, error) {
	return ants.NewPool(size)
}

// NewBuilder creates a Builder with the built-in section catalog and no sources.
// Call Release when the builder is no longer needed.
func NewBuilder(opts ...Option) (*Builder, error) {
	sections, err := Sections()
	if err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU()
	if poolSize < 4 {
		poolSize = 4
	}
	pool, err := newPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		sections:      sections,
		pool:          pool,
		sourceTimeout: DefaultSourceTimeout,
		routePrefix:   DefaultRoutePrefix,
		logger:        slog.Default().With("component", "catalog"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			b.Release()
			return nil, err
		}
	}
	return b, nil
}

// Release frees the worker pool.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// SourceNames lists the configured sources in order.
func (b *Builder) SourceNames() []string {
	names := make([]string, len(b.sources))
	for i, src := range b.sources {
		names[i] = src.Name()
	}
	return names
}

type fetchResult struct {
	articles []*core.Article
	err      error
}

// Build returns a new snapshot: articles from every source in source order,
// then sections. It never fails; a source that errors, panics or misses its
// deadline contributes nothing and is listed in FailedSources.
func (b *Builder) Build(ctx context.Context) *Snapshot {
	fetchCtx, cancel := context.WithTimeout(ctx, b.sourceTimeout)
	defer cancel()

	slots := make([]chan fetchResult, len(b.sources))
	for i, src := range b.sources {
		ch := make(chan fetchResult, 1)
		slots[i] = ch
		go b.submit(fetchCtx, src, ch)
	}

	var (
		items  []core.ContentItem
		failed []string
		seen   = make(map[string]struct{})
	)
	add := func(item core.ContentItem, origin string) {
		if err := core.ValidateContentItem(&item); err != nil {
			b.logger.Warn("dropping invalid item", "source", origin, "id", item.ID, "err", err)
			return
		}
		if _, dup := seen[item.ID]; dup {
			b.logger.Warn("dropping duplicate item", "source", origin, "id", item.ID)
			return
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}

	for i, ch := range slots {
		name := b.sources[i].Name()
		var res fetchResult
		select {
		case res = <-ch:
		case <-fetchCtx.Done():
			// a result may have landed at the same instant as the deadline
			select {
			case res = <-ch:
			default:
				res.err = fmt.Errorf("%w: %w", ErrSourceTimeout, fetchCtx.Err())
			}
		}
		if res.err != nil {
			b.logger.Warn("content source failed", "source", name, "err", res.err)
			failed = append(failed, name)
			continue
		}
		for _, article := range res.articles {
			if err := core.ValidateArticle(article); err != nil {
				b.logger.Warn("dropping invalid article", "source", name, "err", err)
				continue
			}
			add(article.ContentItem(b.routePrefix), name)
		}
	}

	for i := range b.sections {
		add(b.sections[i].ContentItem(), "sections")
	}

	b.logger.Debug("built snapshot", "items", len(items), "failed_sources", len(failed))
	return newSnapshot(items, failed)
}

// submit queues one fetch on the shared pool and delivers exactly one result
// to ch. Submit blocks while every worker is busy; Build stops waiting at the
// deadline, and a fetch that starts after it reports the context error.
func (b *Builder) submit(ctx context.Context, src Source, ch chan<- fetchResult) {
	err := b.pool.Submit(func() {
		if err := ctx.Err(); err != nil {
			ch <- fetchResult{err: err}
			return
		}
		ch <- fetchSource(ctx, src)
	})
	if err != nil {
		ch <- fetchResult{err: err}
	}
}

// fetchSource calls src, converting a panic into an error.
func fetchSource(ctx context.Context, src Source) (res fetchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = fetchResult{err: fmt.Errorf("%w: %v", ErrSourcePanic, r)}
		}
	}()
	articles, err := src.ListArticles(ctx)
	if err == nil && ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// late answers are discarded by Build; report them consistently
		err = fmt.Errorf("%w: %w", ErrSourceTimeout, ctx.Err())
	}
	return fetchResult{articles: articles, err: err}
}
