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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/poiesic/sitesearch"
	"github.com/poiesic/sitesearch/ai"
	"github.com/poiesic/sitesearch/api"
	"github.com/poiesic/sitesearch/catalog"
	"github.com/poiesic/sitesearch/content/markdown"
	"github.com/poiesic/sitesearch/core"
	"github.com/poiesic/sitesearch/search"
	"github.com/poiesic/sitesearch/storage"
	"github.com/poiesic/sitesearch/storage/badger"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := loadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadEnv reads a .env file into the process environment. A missing file is not an error.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sitesearch",
		Usage: "Search site articles and sections by keyword or semantic ranking",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SITESEARCH_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the search HTTP API",
				Action: serveCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "HTTP listen address",
						Value:   ":8080",
						EnvVars: []string{"SITESEARCH_ADDR"},
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run a single search and print the results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(serviceFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultLimit,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the results as JSON",
					},
				),
			},
			{
				Name:   "import",
				Usage:  "Import a markdown content directory into the article database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "content-dir",
						Aliases:  []string{"c"},
						Usage:    "Directory of markdown articles",
						EnvVars:  []string{"SITESEARCH_CONTENT_DIR"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						EnvVars:  []string{"SITESEARCH_DB"},
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "prune",
						Usage: "Delete stored articles that are no longer in the content directory",
					},
				},
			},
		},
	}
}

// serviceFlags are shared by every command that builds a Service.
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "content-dir",
			Aliases: []string{"c"},
			Usage:   "Directory of markdown articles",
			EnvVars: []string{"SITESEARCH_CONTENT_DIR"},
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB article database directory",
			EnvVars: []string{"SITESEARCH_DB"},
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible ranking service host URL",
			EnvVars: []string{"SITESEARCH_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "ai-model",
			Usage:   "Ranking model name",
			Value:   ai.DefaultModel,
			EnvVars: []string{"SITESEARCH_AI_MODEL"},
		},
		&cli.StringFlag{
			Name:    "ai-key",
			Usage:   "Ranking service API key",
			EnvVars: []string{"SITESEARCH_AI_KEY", "OPENAI_API_KEY"},
		},
		&cli.DurationFlag{
			Name:    "source-timeout",
			Usage:   "Maximum time to wait for each content source",
			Value:   catalog.DefaultSourceTimeout,
			EnvVars: []string{"SITESEARCH_SOURCE_TIMEOUT"},
		},
		&cli.DurationFlag{
			Name:    "rank-timeout",
			Usage:   "Maximum time to wait for the ranking service",
			Value:   search.DefaultRankTimeout,
			EnvVars: []string{"SITESEARCH_RANK_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "route-prefix",
			Usage:   "Route prefix prepended to article slugs",
			Value:   catalog.DefaultRoutePrefix,
			EnvVars: []string{"SITESEARCH_ROUTE_PREFIX"},
		},
	}
}

func newService(c *cli.Context) (*sitesearch.Service, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithModel(c.String("ai-model")),
		ai.WithAPIKey(c.String("ai-key")),
	)
	return sitesearch.NewService(
		sitesearch.WithContentDir(c.String("content-dir")),
		sitesearch.WithDatabase(c.String("db")),
		sitesearch.WithAIConfig(aiConfig),
		sitesearch.WithSourceTimeout(c.Duration("source-timeout")),
		sitesearch.WithRankTimeout(c.Duration("rank-timeout")),
		sitesearch.WithRoutePrefix(c.String("route-prefix")),
	)
}

func serveCommand(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	handler, err := api.NewHandler(svc.Searcher(), slog.Default())
	if err != nil {
		return err
	}
	if !slog.Default().Enabled(c.Context, slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(handler, svc.Metrics().Handler(), slog.Default())
	srv := api.NewServer(c.String("addr"), router)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	svc, err := newService(c)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	outcome, err := svc.Searcher().Run(c.Context, query, c.Int("limit"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(api.SearchResponse{
			Query:         outcome.Query,
			Strategy:      string(outcome.Strategy),
			Count:         len(outcome.Results),
			Results:       outcome.Results,
			FailedSources: outcome.FailedSources,
		})
	}

	fmt.Fprintf(c.App.Writer, "Found %d results (%s)\n", len(outcome.Results), outcome.Strategy)
	if len(outcome.FailedSources) > 0 {
		fmt.Fprintf(c.App.Writer, "Unavailable sources: %s\n", strings.Join(outcome.FailedSources, ", "))
	}
	printResults(c.App.Writer, outcome.Results)
	return nil
}

// printResults writes results grouped by kind, then by category. Groups
// appear in order of their best result; relevance order is kept within a group.
func printResults(w io.Writer, results []core.SearchResult) {
	type group struct {
		kind     core.Kind
		category string
		results  []core.SearchResult
	}
	var kinds []core.Kind
	groups := make(map[core.Kind][]*group)

	for _, r := range results {
		byCategory, seen := groups[r.Type]
		if !seen {
			kinds = append(kinds, r.Type)
		}
		var g *group
		for _, existing := range byCategory {
			if existing.category == r.Item.Category {
				g = existing
				break
			}
		}
		if g == nil {
			g = &group{kind: r.Type, category: r.Item.Category}
			groups[r.Type] = append(byCategory, g)
		}
		g.results = append(g.results, r)
	}

	for _, kind := range kinds {
		fmt.Fprintf(w, "\n%s\n", strings.ToUpper(string(kind)+"s"))
		for _, g := range groups[kind] {
			fmt.Fprintf(w, "  %s\n", g.category)
			for _, r := range g.results {
				fmt.Fprintf(w, "    %s  %s [%0.1f]\n", r.Item.ID, r.Item.Title, r.RelevanceScore)
				if r.Item.Description != "" {
					fmt.Fprintf(w, "      %s\n", r.Item.Description)
				}
			}
		}
	}
}

func importCommand(c *cli.Context) error {
	ctx := c.Context
	dir := c.String("content-dir")
	dbPath := c.String("db")

	src, err := markdown.NewSource(dir)
	if err != nil {
		return err
	}
	articles, err := src.ListArticles(ctx)
	if err != nil {
		return fmt.Errorf("failed to read content directory: %w", err)
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	repo, err := badger.NewArticleRepository(backend, badger.WithOwnedBackend())
	if err != nil {
		backend.Close()
		return fmt.Errorf("failed to create article repository: %w", err)
	}
	defer repo.Close()

	if len(articles) > 0 {
		if err := repo.PutArticles(ctx, articles...); err != nil {
			return fmt.Errorf("failed to store articles: %w", err)
		}
	}

	pruned := 0
	if c.Bool("prune") {
		pruned, err = pruneArticles(ctx, repo, articles)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(c.App.Writer, "Imported %d articles from %s into %s", len(articles), dir, dbPath)
	if pruned > 0 {
		fmt.Fprintf(c.App.Writer, " (pruned %d)", pruned)
	}
	fmt.Fprintln(c.App.Writer)
	return nil
}

// pruneArticles deletes stored articles whose slug is not in keep.
func pruneArticles(ctx context.Context, repo storage.ArticleRepository, keep []*core.Article) (int, error) {
	stored, err := repo.ListArticles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored articles: %w", err)
	}
	wanted := make(map[string]struct{}, len(keep))
	for _, a := range keep {
		wanted[a.Slug] = struct{}{}
	}
	var stale []string
	for _, a := range stored {
		if _, ok := wanted[a.Slug]; !ok {
			stale = append(stale, a.Slug)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := repo.DeleteArticles(ctx, stale...); err != nil {
		return 0, fmt.Errorf("failed to prune articles: %w", err)
	}
	return len(stale), nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
