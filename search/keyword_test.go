package search

import (
	"fmt"
	"testing"

	"github.com/poiesic/sitesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioCatalog = []core.ContentItem{
	{ID: "/blog/sciatica", Title: "Sciatica Pain Relief", Category: "Blog", Kind: core.KindArticle},
	{ID: "/services/spine", Title: "Spine Surgery", Category: "Service", Kind: core.KindSection},
}

func resultIDs(results []core.SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Item.ID)
	}
	return ids
}

func TestKeywordScore_Scenario(t *testing.T) {
	results := KeywordScore("sciatica", scenarioCatalog, 5)

	require.Len(t, results, 1)
	assert.Equal(t, "/blog/sciatica", results[0].Item.ID)
	assert.Equal(t, core.KindArticle, results[0].Type)
	assert.GreaterOrEqual(t, results[0].RelevanceScore, 1.0)
}

func TestKeywordScore_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		results := KeywordScore(q, scenarioCatalog, 5)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestKeywordScore_AbsentTerms(t *testing.T) {
	results := KeywordScore("epilepsy xyzzy", scenarioCatalog, 5)
	assert.Empty(t, results)
}

func TestKeywordScore_CountsSubstrings(t *testing.T) {
	items := []core.ContentItem{
		{ID: "/a", Title: "Spine", Description: "spinal spine", Tags: []string{"SPINE"}, Kind: core.KindArticle},
		{ID: "/b", Title: "Backspine", Kind: core.KindArticle},
	}

	results := KeywordScore("spin", items, 0)
	require.Len(t, results, 2)
	// "spine spinal spine ... spine" on /a, one embedded match on /b
	assert.Equal(t, 4.0, results[0].RelevanceScore)
	assert.Equal(t, 1.0, results[1].RelevanceScore)
}

func TestKeywordScore_SumsTermsAndCollapsesRepeats(t *testing.T) {
	items := []core.ContentItem{
		{ID: "/a", Title: "Brain Tumor Surgery", Category: "Brain", Kind: core.KindSection},
	}

	once := KeywordScore("brain tumor", items, 0)
	twice := KeywordScore("Brain brain TUMOR tumor", items, 0)
	require.Len(t, once, 1)
	assert.Equal(t, 3.0, once[0].RelevanceScore)
	assert.Equal(t, once, twice)
}

func TestKeywordScore_StableTies(t *testing.T) {
	var items []core.ContentItem
	for i := 0; i < 20; i++ {
		items = append(items, core.ContentItem{
			ID:    fmt.Sprintf("/item/%02d", i),
			Title: "Neck pain",
			Kind:  core.KindArticle,
		})
	}
	items = append(items, core.ContentItem{ID: "/top", Title: "Neck pain neck pain", Kind: core.KindSection})

	results := KeywordScore("neck", items, 0)
	require.Len(t, results, 21)
	assert.Equal(t, "/top", results[0].Item.ID)
	for i := 1; i < len(results); i++ {
		assert.Equal(t, fmt.Sprintf("/item/%02d", i-1), results[i].Item.ID)
	}
}

func TestKeywordScore_Deterministic(t *testing.T) {
	items := append([]core.ContentItem{}, scenarioCatalog...)
	items = append(items,
		core.ContentItem{ID: "/x", Title: "Spine and sciatica", Kind: core.KindArticle},
		core.ContentItem{ID: "/y", Title: "Sciatica", Tags: []string{"spine"}, Kind: core.KindArticle},
	)

	first := KeywordScore("spine sciatica", items, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, KeywordScore("spine sciatica", items, 10))
	}
}

func TestKeywordScore_Capping(t *testing.T) {
	items := []core.ContentItem{
		{ID: "/a", Title: "pain", Kind: core.KindArticle},
		{ID: "/b", Title: "pain", Kind: core.KindArticle},
		{ID: "/c", Title: "pain", Kind: core.KindArticle},
		{ID: "/d", Title: "none", Kind: core.KindArticle},
	}

	for k := 1; k <= 5; k++ {
		results := KeywordScore("pain", items, k)
		assert.LessOrEqual(t, len(results), k)
		assert.LessOrEqual(t, len(results), 3)
	}
	assert.Equal(t, []string{"/a", "/b"}, resultIDs(KeywordScore("pain", items, 2)))
	assert.Len(t, KeywordScore("pain", items, 0), 3)
	assert.Len(t, KeywordScore("pain", items, -1), 3)
}

func TestKeywordScore_DoesNotModifyInput(t *testing.T) {
	items := []core.ContentItem{
		{ID: "/a", Title: "low", Kind: core.KindArticle},
		{ID: "/b", Title: "low low", Kind: core.KindArticle},
	}
	KeywordScore("low", items, 0)
	assert.Equal(t, "/a", items[0].ID)
}

func TestQueryTerms(t *testing.T) {
	assert.Equal(t, []string{"back", "pain"}, queryTerms("  Back PAIN back\t"))
	assert.Empty(t, queryTerms(" \n "))
}
