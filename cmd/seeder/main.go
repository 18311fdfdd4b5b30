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
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/sitesearch/core"
	"github.com/poiesic/sitesearch/storage"
	"github.com/poiesic/sitesearch/storage/badger"
)

// seedArticle is one line of a JSON lines seed file.
type seedArticle struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"publishedAt"`
}

var samples = []seedArticle{
	{
		Slug:        "sciatica-pain-relief",
		Title:       "Sciatica Pain Relief Without Surgery",
		Excerpt:     "Most sciatica settles with physiotherapy, medication and time.",
		Category:    "Spine",
		Tags:        []string{"sciatica", "back pain", "physiotherapy"},
		PublishedAt: "2025-02-10",
	},
	{
		Slug:        "minimally-invasive-spine-surgery",
		Title:       "What to Expect After Minimally Invasive Spine Surgery",
		Description: "Recovery timelines, wound care and return to work after keyhole spine procedures.",
		Category:    "Spine",
		Tags:        []string{"spine surgery", "recovery"},
		PublishedAt: "2025-03-22",
	},
	{
		Slug:        "brain-tumor-warning-signs",
		Title:       "Brain Tumor Warning Signs You Should Not Ignore",
		Excerpt:     "Persistent headaches, seizures and vision changes warrant a scan.",
		Category:    "Brain",
		Tags:        []string{"brain tumor", "headache", "seizure"},
		PublishedAt: "2025-04-05",
	},
	{
		Slug:        "epilepsy-surgery-candidates",
		Title:       "Who Is a Candidate for Epilepsy Surgery?",
		Excerpt:     "When two medications fail, surgery may offer seizure freedom.",
		Category:    "Epilepsy",
		Tags:        []string{"epilepsy", "seizure"},
		PublishedAt: "2025-01-18",
	},
	{
		Slug:        "carpal-tunnel-release",
		Title:       "Carpal Tunnel Release: A Day Care Procedure",
		Description: "Numbness and tingling in the hand often respond to a short outpatient release.",
		Tags:        []string{"carpal tunnel", "hand numbness", "peripheral nerve"},
		PublishedAt: "2024-11-30",
	},
	{
		Slug:        "neck-pain-posture",
		Title:       "Neck Pain and Posture at the Desk",
		Excerpt:     "Simple workstation changes that ease cervical strain.",
		Category:    "Spine",
		Tags:        []string{"neck pain", "cervical spondylosis"},
		PublishedAt: "2025-05-12",
	},
	{
		Slug:        "head-injury-first-aid",
		Title:       "Head Injury: When to Go to the Emergency Room",
		Excerpt:     "Vomiting, confusion or loss of consciousness after a fall needs urgent review.",
		Category:    "Trauma",
		Tags:        []string{"head injury", "emergency"},
		PublishedAt: "2025-06-01",
	},
}

var (
	dbPath    = flag.String("db", "./articles_db", "path to the article database")
	seedFile  = flag.String("src", "", "JSON lines file of seed articles")
	batchSize = flag.Int("batch", 5, "articles written per transaction")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// articlesFromFile returns an iterator over the articles in a JSON lines file.
// Blank lines are skipped; a malformed line ends iteration with an error.
func articlesFromFile(filename string) (iter.Seq2[*core.Article, error], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(*core.Article, error) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			var seed seedArticle
			if err := json.Unmarshal([]byte(text), &seed); err != nil {
				yield(nil, fmt.Errorf("line %d: %w", line, err))
				return
			}
			article, err := seed.article()
			if !yield(article, err) || err != nil {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, err)
		}
	}, nil
}

// articlesFromSlice returns an iterator over the built-in samples.
func articlesFromSlice(seeds []seedArticle) iter.Seq2[*core.Article, error] {
	return func(yield func(*core.Article, error) bool) {
		for _, seed := range seeds {
			article, err := seed.article()
			if !yield(article, err) || err != nil {
				return
			}
		}
	}
}

func (s seedArticle) article() (*core.Article, error) {
	a := &core.Article{
		Slug:        s.Slug,
		Title:       s.Title,
		Excerpt:     s.Excerpt,
		Description: s.Description,
		Category:    s.Category,
		Tags:        s.Tags,
	}
	if s.PublishedAt != "" {
		t, err := time.Parse(time.DateOnly, s.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("article %q: %w", s.Slug, err)
		}
		a.PublishedAt = t
	}
	return a, nil
}

// putBatched writes articles to the repository in batches.
func putBatched(ctx context.Context, repo storage.ArticleRepository, source iter.Seq2[*core.Article, error], size int) (int, error) {
	batch := make([]*core.Article, 0, size)
	written := 0

	for article, err := range source {
		if err != nil {
			return written, err
		}
		batch = append(batch, article)
		if len(batch) == size {
			if err := repo.PutArticles(ctx, batch...); err != nil {
				return written, err
			}
			written += len(batch)
			batch = batch[:0]
		}
	}

	// Write any remaining articles
	if len(batch) > 0 {
		if err := repo.PutArticles(ctx, batch...); err != nil {
			return written, err
		}
		written += len(batch)
	}
	return written, nil
}

func main() {
	flag.Parse()
	if *batchSize <= 0 {
		slog.Error("batch must be greater than 0")
		os.Exit(1)
	}

	backend, err := badger.OpenBackend(*dbPath, false)
	if err != nil {
		panic(err)
	}
	repo, err := badger.NewArticleRepository(backend, badger.WithOwnedBackend())
	if err != nil {
		backend.Close()
		panic(err)
	}
	defer repo.Close()

	// Determine source of seed data
	var source iter.Seq2[*core.Article, error]
	if *seedFile != "" {
		source, err = articlesFromFile(*seedFile)
		if err != nil {
			panic(err)
		}
	} else {
		source = articlesFromSlice(samples)
	}

	written, err := putBatched(context.Background(), repo, source, *batchSize)
	if err != nil {
		slog.Error("seeding failed", "written", written, "err", err)
		os.Exit(1)
	}
	slog.Info("seeded articles", "count", written, "db", *dbPath)
}
