package catalog

import (
	"testing"

	"github.com/poiesic/sitesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections_Embedded(t *testing.T) {
	sections, err := Sections()
	require.NoError(t, err)
	require.Len(t, sections, 20)

	assert.Equal(t, "/about", sections[0].Href)
	assert.Equal(t, "About the Surgeon", sections[0].Category)

	seen := make(map[string]bool)
	for _, s := range sections {
		assert.False(t, seen[s.Href], "duplicate href %s", s.Href)
		seen[s.Href] = true
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Description)
	}
}

func TestSections_FreshCopy(t *testing.T) {
	first, err := Sections()
	require.NoError(t, err)
	first[0].Title = "changed"
	first[0].Tags[0] = "changed"

	second, err := Sections()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", second[0].Title)
	assert.NotEqual(t, "changed", second[0].Tags[0])
}

func TestParseSections(t *testing.T) {
	data := []byte(`
- href: /contact
  title: Contact
  description: Phone and WhatsApp
  category: Contact & Appointment
  tags: [call, support]
`)
	sections, err := ParseSections(data)
	require.NoError(t, err)
	assert.Equal(t, []core.Section{{
		Href:        "/contact",
		Title:       "Contact",
		Description: "Phone and WhatsApp",
		Category:    "Contact & Appointment",
		Tags:        []string{"call", "support"},
	}}, sections)
}

func TestParseSections_Invalid(t *testing.T) {
	_, err := ParseSections([]byte(`{not: a list`))
	assert.ErrorIs(t, err, ErrInvalidSections)

	_, err = ParseSections([]byte("- href: /x\n  title: \"\"\n"))
	assert.ErrorIs(t, err, ErrInvalidSections)
	assert.ErrorIs(t, err, core.ErrEmptyTitle)
}

func TestSnapshot_Lookup(t *testing.T) {
	snap := NewSnapshot(
		core.ContentItem{ID: "/a", Title: "A", Kind: core.KindSection},
		core.ContentItem{ID: "/a", Title: "A2", Kind: core.KindSection},
		core.ContentItem{ID: "/b", Title: "B", Kind: core.KindArticle},
	)
	assert.Equal(t, 2, snap.Len())

	item, ok := snap.Lookup("/a")
	require.True(t, ok)
	assert.Equal(t, "A", item.Title)

	_, ok = snap.Lookup("/missing")
	assert.False(t, ok)

	var nilSnap *Snapshot
	assert.Equal(t, 0, nilSnap.Len())
	_, ok = nilSnap.Lookup("/a")
	assert.False(t, ok)
}
