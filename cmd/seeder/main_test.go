package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/sitesearch/core"
	"github.com/poiesic/sitesearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplesAreValid(t *testing.T) {
	for article, err := range articlesFromSlice(samples) {
		require.NoError(t, err)
		assert.NoError(t, core.ValidateArticle(article), article.Slug)
	}
}

func TestArticlesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	data := `{"slug":"spine-care","title":"Spine Care","publishedAt":"2025-01-02"}

{"slug":"brain-health","title":"Brain Health","tags":["brain"]}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	source, err := articlesFromFile(path)
	require.NoError(t, err)

	var slugs []string
	for article, err := range source {
		require.NoError(t, err)
		slugs = append(slugs, article.Slug)
	}
	assert.Equal(t, []string{"spine-care", "brain-health"}, slugs)
}

func TestArticlesFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"slug\":\"ok\",\"title\":\"OK\"}\nnot json\n"), 0644))

	source, err := articlesFromFile(path)
	require.NoError(t, err)

	var gotErr error
	count := 0
	for _, err := range source {
		if err != nil {
			gotErr = err
			break
		}
		count++
	}
	assert.Equal(t, 1, count)
	assert.ErrorContains(t, gotErr, "line 2")
}

func TestPutBatched(t *testing.T) {
	repo, err := badger.NewMemoryArticleRepository()
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	written, err := putBatched(ctx, repo, articlesFromSlice(samples), 3)
	require.NoError(t, err)
	assert.Equal(t, len(samples), written)

	articles, err := repo.ListArticles(ctx)
	require.NoError(t, err)
	require.Len(t, articles, len(samples))
	assert.Equal(t, "head-injury-first-aid", articles[0].Slug)
}
