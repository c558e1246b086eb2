package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenIsPreOrder(t *testing.T) {
	forest := []*Item{
		{ID: "A", Children: []*Item{
			{ID: "B", Children: []*Item{{ID: "C"}}},
			{ID: "D"},
		}},
		{ID: "E"},
	}

	flat := Flatten(forest)
	ids := make([]string, len(flat))
	for i, item := range flat {
		ids[i] = item.ID
		assert.Nil(t, item.Children)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, ids)
}

func TestDefaultCatalogParentsPrecedeChildren(t *testing.T) {
	seen := make(map[string]bool)
	for _, item := range Default().Flat() {
		if item.ParentID != "" {
			assert.True(t, seen[item.ParentID], "%s listed before its parent %s", item.ID, item.ParentID)
		}
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestStructureReturnsCopy(t *testing.T) {
	first := Structure()
	first[0].Name = "changed"
	first[1].Children = nil

	second := Structure()
	assert.Equal(t, "Dashboard", second[0].Name)
	assert.NotEmpty(t, second[1].Children)
}

func TestCatalogIndex(t *testing.T) {
	c := NewCatalog([]*Item{
		{ID: "A", Children: []*Item{
			{ID: "B", Children: []*Item{{ID: "C", Href: "/c"}}},
			{ID: "D", Href: "/d"},
		}},
	})

	parent, ok := c.Parent("C")
	require.True(t, ok)
	assert.Equal(t, "B", parent)

	_, ok = c.Parent("A")
	assert.False(t, ok)
	_, ok = c.Parent("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"B", "D"}, c.Children("A"))
	assert.Empty(t, c.Children("C"))

	item, ok := c.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, "A", item.ParentID)
	assert.Nil(t, item.Children)

	assert.Equal(t, []string{"/c", "/d"}, c.Hrefs())
	assert.Equal(t, []string{"/d"}, c.HrefsOf([]string{"A", "D", "missing"}))
}

func TestDefaultHrefsAreUnique(t *testing.T) {
	hrefs := Default().Hrefs()
	seen := make(map[string]bool)
	for _, h := range hrefs {
		assert.False(t, seen[h])
		seen[h] = true
	}
	assert.Contains(t, hrefs, "/esgdd/escap")
}
