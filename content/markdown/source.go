package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/sitesearch/core"
	"gopkg.in/yaml.v3"
)

// SourceName is reported by Source.Name.
const SourceName = "markdown"

var extensions = []string{".md", ".mdx"}

// Source lists articles from *.md and *.mdx files in a single directory.
// Files are read on every call; nothing is cached.
type Source struct {
	fsys   fs.FS
	dir    string
	logger *slog.Logger
}

// Option configures a Source.
type Option func(*Source) error

// WithLogger sets the logger for the source.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) error {
		s.logger = logger
		return nil
	}
}

// WithFS reads from fsys instead of the operating system. dir is then a path within fsys.
func WithFS(fsys fs.FS) Option {
	return func(s *Source) error {
		if fsys == nil {
			return errors.New("fs cannot be nil")
		}
		s.fsys = fsys
		return nil
	}
}

// NewSource creates a Source over dir.
func NewSource(dir string, opts ...Option) (*Source, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrDirRequired
	}
	s := &Source{
		dir:    dir,
		logger: slog.Default().With("component", "markdown-source"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.fsys == nil {
		s.fsys = os.DirFS(dir)
		s.dir = "."
	}
	return s, nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return SourceName
}

// ListArticles parses every eligible file, newest first. A missing directory
// yields no articles. Files that fail to parse are skipped with a warning.
func (s *Source) ListArticles(ctx context.Context) ([]*core.Article, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var articles []*core.Article
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !eligible(entry.Name()) {
			continue
		}

		article, err := s.readArticle(entry.Name())
		if err != nil {
			s.logger.Warn("skipping article", "file", entry.Name(), "err", err)
			continue
		}
		articles = append(articles, article)
	}

	core.SortArticles(articles)
	return articles, nil
}

// eligible reports whether a file name can hold a publishable article.
func eligible(name string) bool {
	ext := filepath.Ext(name)
	known := false
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			known = true
		}
	}
	if !known {
		return false
	}
	stem := strings.TrimSuffix(name, ext)
	return !strings.EqualFold(stem, "readme") && !core.IsForbiddenSlug(stem)
}

func (s *Source) readArticle(name string) (*core.Article, error) {
	data, err := fs.ReadFile(s.fsys, filepath.ToSlash(filepath.Join(s.dir, name)))
	if err != nil {
		return nil, err
	}
	return parseArticle(strings.TrimSuffix(name, filepath.Ext(name)), data, s.logger.With("file", name))
}

// ParseArticle decodes one Markdown file. defaultSlug is used when the front
// matter has no slug. The result is validated with core.ValidateArticle.
// An unreadable publishedAt is logged and the article is kept undated.
func ParseArticle(defaultSlug string, data []byte) (*core.Article, error) {
	return parseArticle(defaultSlug, data, slog.Default().With("component", "markdown-source"))
}

func parseArticle(defaultSlug string, data []byte, logger *slog.Logger) (*core.Article, error) {
	header, _, ok := splitFrontMatter(string(data))
	if !ok {
		return nil, ErrNoFrontMatter
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = defaultSlug
	}
	published, err := parseDate(fm.PublishedAt)
	if err != nil {
		logger.Warn("ignoring publishedAt, article kept undated", "slug", slug, "err", err)
	}
	article := &core.Article{
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Excerpt:     strings.TrimSpace(fm.Excerpt),
		Description: strings.TrimSpace(fm.Description),
		Category:    strings.TrimSpace(fm.Category),
		Tags:        []string(fm.Tags),
		PublishedAt: published,
	}
	if err := core.ValidateArticle(article); err != nil {
		return nil, err
	}
	return article, nil
}
