// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sitesearch assembles the site content retrieval service from its
// content sources, the optional semantic ranker and metrics.
package sitesearch

import (
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/sitesearch/ai"
	"github.com/poiesic/sitesearch/ai/openai"
	"github.com/poiesic/sitesearch/catalog"
	"github.com/poiesic/sitesearch/content/markdown"
	"github.com/poiesic/sitesearch/metrics"
	"github.com/poiesic/sitesearch/search"
	"github.com/poiesic/sitesearch/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
)

// Service wires content sources, the snapshot builder, the optional
// semantic ranker and metrics into a ready-to-use Searcher.
type Service struct {
	builder  *catalog.Builder
	searcher *search.Searcher
	articles *badger.ArticleRepository
	monitor  *metrics.Monitor
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	contentDir    string
	dbPath        string
	aiConfig      *ai.Config
	ranker        ai.Ranker
	registry      *prometheus.Registry
	sourceTimeout time.Duration
	rankTimeout   time.Duration
	routePrefix   string
	logger        *slog.Logger
}

// WithContentDir adds a markdown directory as a content source.
func WithContentDir(dir string) ServiceOption {
	return func(o *serviceOptions) { o.contentDir = dir }
}

// WithDatabase adds the badger article store at path as a content source.
func WithDatabase(path string) ServiceOption {
	return func(o *serviceOptions) { o.dbPath = path }
}

// WithAIConfig sets the ranking service configuration. Semantic ranking is
// enabled only when the config is fully configured.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) { o.aiConfig = config }
}

// WithRanker installs a ranker directly, bypassing the AI configuration.
func WithRanker(ranker ai.Ranker) ServiceOption {
	return func(o *serviceOptions) { o.ranker = ranker }
}

// WithRegistry sets the prometheus registry metrics are registered on.
func WithRegistry(reg *prometheus.Registry) ServiceOption {
	return func(o *serviceOptions) { o.registry = reg }
}

// WithSourceTimeout bounds each content source fetch. Default is catalog.DefaultSourceTimeout.
func WithSourceTimeout(d time.Duration) ServiceOption {
	return func(o *serviceOptions) { o.sourceTimeout = d }
}

// WithRankTimeout bounds the semantic ranking call. Default is search.DefaultRankTimeout.
func WithRankTimeout(d time.Duration) ServiceOption {
	return func(o *serviceOptions) { o.rankTimeout = d }
}

// WithRoutePrefix sets the prefix prepended to article slugs to form result ids.
func WithRoutePrefix(prefix string) ServiceOption {
	return func(o *serviceOptions) { o.routePrefix = prefix }
}

// WithLogger sets the base logger; each component adds its own component attribute.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) { o.logger = logger }
}

// NewService opens the configured sources and assembles the searcher.
// Semantic ranking is enabled only for a fully configured AI config or an explicit ranker.
// Call Close when the service is no longer needed.
func NewService(opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:      ai.DefaultConfig(),
		sourceTimeout: catalog.DefaultSourceTimeout,
		rankTimeout:   search.DefaultRankTimeout,
		routePrefix:   catalog.DefaultRoutePrefix,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.registry == nil {
		options.registry = prometheus.NewRegistry()
	}

	svc := &Service{
		monitor: metrics.New(options.registry),
		logger:  options.logger.With("component", "sitesearch"),
	}

	var sources []catalog.Source
	if options.contentDir != "" {
		src, err := markdown.NewSource(options.contentDir,
			markdown.WithLogger(options.logger.With("component", "markdown-source")))
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if options.dbPath != "" {
		backend, err := badger.OpenBackend(options.dbPath, false)
		if err != nil {
			return nil, err
		}
		repo, err := badger.NewArticleRepository(backend,
			badger.WithOwnedBackend(),
			badger.WithRepositoryLogger(options.logger.With("component", "article-store")))
		if err != nil {
			backend.Close()
			return nil, err
		}
		svc.articles = repo
		sources = append(sources, repo)
	}

	builder, err := catalog.NewBuilder(
		catalog.WithSources(sources...),
		catalog.WithSourceTimeout(options.sourceTimeout),
		catalog.WithRoutePrefix(options.routePrefix),
		catalog.WithLogger(options.logger.With("component", "catalog")),
	)
	if err != nil {
		svc.closeArticles()
		return nil, err
	}
	svc.builder = builder

	ranker, err := svc.resolveRanker(options)
	if err != nil {
		svc.Close()
		return nil, err
	}

	searchOpts := []search.Option{
		search.WithLogger(options.logger.With("component", "searcher")),
		search.WithMonitor(svc.monitor),
		search.WithRankTimeout(options.rankTimeout),
	}
	if ranker != nil {
		searchOpts = append(searchOpts, search.WithRanker(ranker))
	}
	searcher, err := search.NewSearcher(builder, searchOpts...)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.searcher = searcher

	svc.logger.Info("site search ready",
		"sources", builder.SourceNames(),
		"semantic", searcher.SemanticEnabled())
	return svc, nil
}

// resolveRanker returns nil, without error, when semantic ranking is not configured.
func (s *Service) resolveRanker(options *serviceOptions) (ai.Ranker, error) {
	if options.ranker != nil {
		return options.ranker, nil
	}
	config := options.aiConfig
	if config == nil {
		return nil, nil
	}
	config.Normalize()
	if !config.Configured() {
		if config.Partial() {
			s.logger.Warn("ranking service partially configured, semantic ranking disabled",
				"host", config.Host, "model", config.Model)
		}
		return nil, nil
	}
	return openai.NewRanker(config, openai.WithLogger(options.logger.With("component", "ranker")))
}

// Searcher returns the configured searcher.
func (s *Service) Searcher() *search.Searcher {
	return s.searcher
}

// Builder returns the snapshot builder shared by all searches.
func (s *Service) Builder() *catalog.Builder {
	return s.builder
}

// ArticleRepository returns the badger article store, or nil when no
// database was configured.
func (s *Service) ArticleRepository() *badger.ArticleRepository {
	return s.articles
}

// Metrics returns the prometheus monitor attached to the searcher.
func (s *Service) Metrics() *metrics.Monitor {
	return s.monitor
}

// Close releases the builder's worker pool and closes the article store, if any.
func (s *Service) Close() error {
	if s.builder != nil {
		s.builder.Release()
	}
	return s.closeArticles()
}

func (s *Service) closeArticles() error {
	if s.articles == nil {
		return nil
	}
	if err := s.articles.Close(); err != nil {
		s.logger.Error("error closing article store", "err", err)
		return errors.Join(ErrCloseFailed, err)
	}
	return nil
}
