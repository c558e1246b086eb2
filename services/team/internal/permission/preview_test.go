package permission

import (
	"testing"

	"github.com/esgdesk/services/team/internal/navigation"
	"github.com/stretchr/testify/assert"
)

func ids(forest []*navigation.Item) []string {
	out := make([]string, 0)
	for _, item := range navigation.Flatten(forest) {
		out = append(out, item.ID)
	}
	return out
}

func previewForest() []*navigation.Item {
	return navigation.NewCatalog([]*navigation.Item{
		{ID: "dash", Href: "/dash"},
		{ID: "heading", Children: []*navigation.Item{
			{ID: "h1", Href: "/h1"},
			{ID: "h2", Href: "/h2"},
		}},
		{ID: "section", Href: "/section", Children: []*navigation.Item{
			{ID: "s1", Href: "/s1"},
		}},
		{ID: "empty-heading"},
	}).Structure()
}

func TestProjectExcludesDeniedItems(t *testing.T) {
	forest := previewForest()
	state := State{"dash": true, "heading": true, "h1": true, "h2": false, "section": false, "s1": true}

	got := Project(forest, state)

	assert.Equal(t, []string{"dash", "heading", "h1"}, ids(got))
	for _, item := range navigation.Flatten(got) {
		assert.True(t, state[item.ID])
	}
}

func TestProjectDropsDeadEndHeadings(t *testing.T) {
	forest := previewForest()
	state := State{"heading": true, "h1": false, "h2": false, "empty-heading": true}

	got := Project(forest, state)

	// 没有子项的叶子标题不是因为过滤而变空, 保留
	assert.Equal(t, []string{"empty-heading"}, ids(got))
}

func TestProjectKeepsLinkedParentWithoutChildren(t *testing.T) {
	forest := previewForest()
	state := State{"section": true, "s1": false}

	got := Project(forest, state)

	assert.Equal(t, []string{"section"}, ids(got))
	assert.Nil(t, got[0].Children)
}

func TestProjectPreservesOrderAndInput(t *testing.T) {
	forest := previewForest()
	state := State{"dash": true, "heading": true, "h1": true, "h2": true, "section": true, "s1": true, "empty-heading": true}

	got := Project(forest, state)

	assert.Equal(t, []string{"dash", "heading", "h1", "h2", "section", "s1", "empty-heading"}, ids(got))
	assert.Equal(t, previewForest(), forest)
}

func TestProjectNeverReturnsDeniedOrDeadEnds(t *testing.T) {
	forest := navigation.Structure()
	flat := navigation.Flatten(forest)

	// 对默认目录做若干组授权组合
	for mask := 0; mask < 64; mask++ {
		state := State{}
		for i, item := range flat {
			state[item.ID] = (i*7+mask)%3 != 0
		}

		var check func(original map[string]*navigation.Item, items []*navigation.Item)
		check = func(original map[string]*navigation.Item, items []*navigation.Item) {
			for _, item := range items {
				assert.True(t, state[item.ID])
				if src := original[item.ID]; src != nil && len(src.Children) > 0 && item.Href == "" {
					assert.NotEmpty(t, item.Children, "dead-end heading %s kept", item.ID)
				}
				check(original, item.Children)
			}
		}
		original := make(map[string]*navigation.Item)
		var index func(items []*navigation.Item)
		index = func(items []*navigation.Item) {
			for _, item := range items {
				original[item.ID] = item
				index(item.Children)
			}
		}
		index(forest)
		check(original, Project(forest, state))
	}
}

func TestProjectEmptyState(t *testing.T) {
	got := Project(navigation.Structure(), State{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
