package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/sitesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testArticle = `---
title: Sciatica Pain Relief
excerpt: Non-surgical options for sciatica
category: Spine
tags: [sciatica]
publishedAt: 2025-03-01
---
Body.
`

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"sitesearch"}, args...))
	return out.String(), err
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("search has service flags", func(t *testing.T) {
		cmd := findCommand(t, app, "search")
		var names []string
		for _, f := range cmd.Flags {
			names = append(names, f.Names()[0])
		}
		assert.Subset(t, names, []string{"content-dir", "db", "ai-host", "ai-model", "ai-key", "limit"})
	})

	t.Run("ai-model has default value", func(t *testing.T) {
		cmd := findCommand(t, app, "serve")
		var modelFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "ai-model" {
				modelFlag = f
				break
			}
		}
		require.NotNil(t, modelFlag)
		assert.Equal(t, "gpt-4o-mini", modelFlag.Value)
	})

	t.Run("import requires content-dir", func(t *testing.T) {
		_, err := runApp(t, "import", "--db", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "content-dir")
	})
}

func TestSetupLogger(t *testing.T) {
	_, err := runApp(t, "--log-level", "verbose", "search", "spine")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestSearchCommand(t *testing.T) {
	dir := writeContent(t, map[string]string{"sciatica-relief.md": testArticle})

	t.Run("requires query", func(t *testing.T) {
		_, err := runApp(t, "search", "--content-dir", dir)
		assert.Error(t, err)
	})

	t.Run("text output", func(t *testing.T) {
		out, err := runApp(t, "search", "--content-dir", dir, "sciatica")
		require.NoError(t, err)
		assert.Contains(t, out, "(keyword)")
		assert.Contains(t, out, "ARTICLES")
		assert.Contains(t, out, "/blog/sciatica-relief")
	})

	t.Run("content dir from environment", func(t *testing.T) {
		t.Setenv("SITESEARCH_CONTENT_DIR", dir)
		out, err := runApp(t, "search", "--json", "sciatica")
		require.NoError(t, err)

		var resp struct {
			Strategy string              `json:"strategy"`
			Results  []core.SearchResult `json:"results"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "keyword", resp.Strategy)

		found := false
		for _, r := range resp.Results {
			if r.Item.ID == "/blog/sciatica-relief" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestImportCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")
	dir := writeContent(t, map[string]string{
		"sciatica-relief.md": testArticle,
		"README.md":          "# notes",
	})

	out, err := runApp(t, "import", "--content-dir", dir, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 articles")

	out, err = runApp(t, "search", "--db", dbPath, "--json", "sciatica")
	require.NoError(t, err)
	assert.Contains(t, out, "/blog/sciatica-relief")

	empty := t.TempDir()
	out, err = runApp(t, "import", "--content-dir", empty, "--db", dbPath, "--prune")
	require.NoError(t, err)
	assert.Contains(t, out, "pruned 1")
}

func TestPrintResults(t *testing.T) {
	results := []core.SearchResult{
		core.NewSearchResult(core.ContentItem{ID: "/blog/a", Title: "A", Category: "Spine", Kind: core.KindArticle}, 5),
		core.NewSearchResult(core.ContentItem{ID: "/spine", Title: "Spine", Category: "Services", Kind: core.KindSection}, 4),
		core.NewSearchResult(core.ContentItem{ID: "/blog/b", Title: "B", Category: "Brain", Kind: core.KindArticle}, 3),
		core.NewSearchResult(core.ContentItem{ID: "/blog/c", Title: "C", Category: "Spine", Kind: core.KindArticle}, 2),
	}

	var out bytes.Buffer
	printResults(&out, results)
	text := out.String()

	order := []string{"ARTICLES", "Spine", "/blog/a", "/blog/c", "Brain", "/blog/b", "SECTIONS", "Services", "/spine"}
	last := -1
	for _, want := range order {
		idx := strings.Index(text[last+1:], want)
		require.GreaterOrEqual(t, idx, 0, "missing %q after position %d in:\n%s", want, last, text)
		last += idx + 1
	}
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITESEARCH_TEST_VALUE=loaded\n"), 0644))
	t.Setenv("SITESEARCH_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("SITESEARCH_TEST_VALUE"))
	require.NoError(t, loadEnv(path))
	assert.Equal(t, "loaded", os.Getenv("SITESEARCH_TEST_VALUE"))
}
