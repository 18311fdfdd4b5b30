package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/sitesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name     string
	articles []*core.Article
	err      error
	delay    time.Duration
	ignore   bool // ignore ctx while sleeping
	panics   bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) ListArticles(ctx context.Context) ([]*core.Article, error) {
	if s.panics {
		panic("boom")
	}
	if s.delay > 0 {
		if s.ignore {
			time.Sleep(s.delay)
		} else {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return s.articles, s.err
}

var testSections = []core.Section{
	{Href: "/about", Title: "About", Category: "About the Surgeon"},
	{Href: "/contact", Title: "Contact", Category: "Contact & Appointment", Tags: []string{"call"}},
}

func newTestBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	opts = append([]Option{WithSections(testSections)}, opts...)
	b, err := NewBuilder(opts...)
	require.NoError(t, err)
	t.Cleanup(b.Release)
	return b
}

func ids(s *Snapshot) []string {
	out := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		out = append(out, item.ID)
	}
	return out
}

func TestBuild_SectionsOnly(t *testing.T) {
	b := newTestBuilder(t)

	snap := b.Build(context.Background())
	assert.Equal(t, []string{"/about", "/contact"}, ids(snap))
	assert.Empty(t, snap.FailedSources)
	assert.False(t, snap.Degraded())
	for _, item := range snap.Items {
		assert.Equal(t, core.KindSection, item.Kind)
	}
}

func TestBuild_ArticlesBeforeSectionsInSourceOrder(t *testing.T) {
	first := &stubSource{name: "first", articles: []*core.Article{
		{Slug: "b", Title: "B"},
		{Slug: "a", Title: "A", Excerpt: "short", Description: "long"},
	}}
	second := &stubSource{name: "second", articles: []*core.Article{
		{Slug: "c", Title: "C", Category: "Spine"},
	}}
	b := newTestBuilder(t, WithSources(first, second))

	snap := b.Build(context.Background())
	assert.Equal(t, []string{"/blog/b", "/blog/a", "/blog/c", "/about", "/contact"}, ids(snap))

	a, ok := snap.Lookup("/blog/a")
	require.True(t, ok)
	assert.Equal(t, "short", a.Description)
	assert.Equal(t, core.DefaultArticleCategory, a.Category)
	assert.Equal(t, core.KindArticle, a.Kind)

	c, ok := snap.Lookup("/blog/c")
	require.True(t, ok)
	assert.Equal(t, "Spine", c.Category)
}

func TestBuild_RoutePrefix(t *testing.T) {
	src := &stubSource{name: "s", articles: []*core.Article{{Slug: "x", Title: "X"}}}
	b := newTestBuilder(t, WithSources(src), WithRoutePrefix("/articles/"))

	snap := b.Build(context.Background())
	_, ok := snap.Lookup("/articles/x")
	assert.True(t, ok)
}

func TestBuild_FailingSourceDegrades(t *testing.T) {
	bad := &stubSource{name: "bad", err: errors.New("unavailable")}
	good := &stubSource{name: "good", articles: []*core.Article{{Slug: "a", Title: "A"}}}
	b := newTestBuilder(t, WithSources(bad, good))

	snap := b.Build(context.Background())
	assert.Equal(t, []string{"/blog/a", "/about", "/contact"}, ids(snap))
	assert.Equal(t, []string{"bad"}, snap.FailedSources)
	assert.True(t, snap.Degraded())
}

func TestBuild_PanickingSourceDegrades(t *testing.T) {
	b := newTestBuilder(t, WithSources(&stubSource{name: "panicky", panics: true}))

	snap := b.Build(context.Background())
	assert.Equal(t, []string{"/about", "/contact"}, ids(snap))
	assert.Equal(t, []string{"panicky"}, snap.FailedSources)
}

func TestBuild_SlowSourceTimesOut(t *testing.T) {
	slow := &stubSource{
		name:     "slow",
		articles: []*core.Article{{Slug: "late", Title: "Late"}},
		delay:    2 * time.Second,
		ignore:   true,
	}
	b := newTestBuilder(t, WithSources(slow), WithSourceTimeout(50*time.Millisecond))

	start := time.Now()
	snap := b.Build(context.Background())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, []string{"/about", "/contact"}, ids(snap))
	assert.Equal(t, []string{"slow"}, snap.FailedSources)
}

func TestBuild_DropsInvalidAndDuplicates(t *testing.T) {
	first := &stubSource{name: "first", articles: []*core.Article{
		{Slug: "a", Title: "First A"},
		{Slug: "", Title: "No slug"},
		{Slug: "example-post", Title: "Forbidden"},
		{Slug: "notitle", Title: ""},
		nil,
	}}
	second := &stubSource{name: "second", articles: []*core.Article{
		{Slug: "a", Title: "Second A"},
	}}
	sections := []core.Section{
		{Href: "/about", Title: "About"},
		{Href: "/about", Title: "About again"},
		{Href: "/empty", Title: ""},
	}
	b := newTestBuilder(t, WithSources(first, second), WithSections(sections))

	snap := b.Build(context.Background())
	assert.Equal(t, []string{"/blog/a", "/about"}, ids(snap))

	a, _ := snap.Lookup("/blog/a")
	assert.Equal(t, "First A", a.Title)
	about, _ := snap.Lookup("/about")
	assert.Equal(t, "About", about.Title)
}

func TestBuild_FreshSnapshotPerCall(t *testing.T) {
	src := &stubSource{name: "s", articles: []*core.Article{{Slug: "a", Title: "A"}}}
	b := newTestBuilder(t, WithSources(src))

	first := b.Build(context.Background())
	first.Items[0].Title = "mutated"

	second := b.Build(context.Background())
	assert.Equal(t, "A", second.Items[0].Title)

	src.articles = append(src.articles, &core.Article{Slug: "b", Title: "B"})
	third := b.Build(context.Background())
	assert.Equal(t, 4, third.Len())
}

func TestNewBuilder_Options(t *testing.T) {
	_, err := NewBuilder(WithSources(nil))
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewBuilder(WithSourceTimeout(0))
	assert.Error(t, err)

	b, err := NewBuilder(WithPoolSize(2), WithSources(&stubSource{name: "one"}, &stubSource{name: "two"}))
	require.NoError(t, err)
	defer b.Release()
	assert.Equal(t, []string{"one", "two"}, b.SourceNames())
}

func TestNewBuilder_DefaultSections(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	defer b.Release()

	snap := b.Build(context.Background())
	assert.Equal(t, 20, snap.Len())
	_, ok := snap.Lookup("/conditions/sciatica-treatment-hyderabad")
	assert.True(t, ok)
}

func TestBuild_ConcurrentCallsShareThePool(t *testing.T) {
	slow := &stubSource{
		name:     "slow",
		delay:    20 * time.Millisecond,
		articles: []*core.Article{{Slug: "sciatica", Title: "Sciatica"}},
	}
	b := newTestBuilder(t, WithSources(slow), WithPoolSize(2), WithSourceTimeout(5*time.Second))

	const calls = 32
	snaps := make([]*Snapshot, calls)
	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snaps[i] = b.Build(context.Background())
		}()
	}
	wg.Wait()

	for i, snap := range snaps {
		assert.False(t, snap.Degraded(), "build %d reported %v", i, snap.FailedSources)
		_, ok := snap.Lookup("/blog/sciatica")
		assert.True(t, ok, "build %d is missing the article", i)
	}
}

func TestBuild_BusyPoolStillHonoursDeadline(t *testing.T) {
	stuck := &stubSource{name: "stuck", delay: 300 * time.Millisecond, ignore: true}
	b := newTestBuilder(t, WithSources(stuck), WithPoolSize(1), WithSourceTimeout(50*time.Millisecond))

	var wg sync.WaitGroup
	start := time.Now()
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := b.Build(context.Background())
			assert.Equal(t, []string{"stuck"}, snap.FailedSources)
			assert.Equal(t, 2, snap.Len())
		}()
	}
	wg.Wait()
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}
