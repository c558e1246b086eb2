package permission

import (
	"testing"

	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/services/team/internal/navigation"
	"github.com/stretchr/testify/assert"
)

// A -> B -> C -> D, A -> E
func chainCatalog() *navigation.Catalog {
	return navigation.NewCatalog([]*navigation.Item{
		{ID: "A", Name: "A", Children: []*navigation.Item{
			{ID: "B", Name: "B", Children: []*navigation.Item{
				{ID: "C", Name: "C", Children: []*navigation.Item{
					{ID: "D", Name: "D", Href: "/d"},
				}},
			}},
			{ID: "E", Name: "E", Href: "/e"},
		}},
	})
}

func allFalse() State {
	return State{"A": false, "B": false, "C": false, "D": false, "E": false}
}

func allTrue() State {
	return State{"A": true, "B": true, "C": true, "D": true, "E": true}
}

func TestGrantChildGrantsOnlyImmediateParent(t *testing.T) {
	e := NewEngine(chainCatalog(), DefaultEngineOptions())
	base := State{"A": false, "B": false, "C": false}

	got := e.ApplyToggle(base, "C", true)

	assert.Equal(t, State{"A": false, "B": true, "C": true}, got)
}

func TestRevokeParentCascadesToChild(t *testing.T) {
	e := NewEngine(chainCatalog(), DefaultEngineOptions())

	got := e.ApplyToggle(State{"A": true, "B": true, "C": true}, "B", false)

	// D 是 B 的孙级, 即使原状态里没有也会被写为 false
	assert.Equal(t, State{"A": true, "B": false, "C": false, "D": false}, got)
}

func TestApplyToggleDoesNotMutateInput(t *testing.T) {
	e := NewEngine(chainCatalog(), DefaultEngineOptions())
	base := allFalse()

	_ = e.ApplyToggle(base, "D", true)
	assert.Equal(t, allFalse(), base)

	full := allTrue()
	_ = e.ApplyToggle(full, "A", false)
	assert.Equal(t, allTrue(), full)
}

func TestGrantImpliesParentForEveryItem(t *testing.T) {
	catalogs := []*navigation.Catalog{chainCatalog(), navigation.Default()}
	for _, c := range catalogs {
		for _, mode := range []AncestorMode{AncestorParent, AncestorChain} {
			e := NewEngine(c, EngineOptions{AncestorMode: mode, CascadeDepth: 2})
			for _, item := range c.Flat() {
				got := e.ApplyToggle(State{}, item.ID, true)
				assert.True(t, got[item.ID])
				if item.ParentID != "" {
					assert.True(t, got[item.ParentID], "granting %s must grant %s", item.ID, item.ParentID)
				}
			}
		}
	}
}

func TestRevokeClearsChildrenAndGrandchildren(t *testing.T) {
	c := navigation.Default()
	e := NewEngine(c, DefaultEngineOptions())

	full := State{}
	for _, item := range c.Flat() {
		full[item.ID] = true
	}

	for _, item := range c.Flat() {
		got := e.ApplyToggle(full, item.ID, false)
		assert.False(t, got[item.ID])
		for _, child := range c.Children(item.ID) {
			assert.False(t, got[child])
			for _, grandchild := range c.Children(child) {
				assert.False(t, got[grandchild])
			}
		}
	}
}

func TestRevokeLeavesGreatGrandchildrenInLiteralMode(t *testing.T) {
	e := NewEngine(chainCatalog(), DefaultEngineOptions())

	got := e.ApplyToggle(allTrue(), "A", false)

	assert.False(t, got["A"])
	assert.False(t, got["B"])
	assert.False(t, got["E"])
	assert.False(t, got["C"])
	// 第三层不在级联范围内
	assert.True(t, got["D"])
}

func TestRevokeUnboundedClearsWholeSubtree(t *testing.T) {
	e := NewEngine(chainCatalog(), EngineOptions{AncestorMode: AncestorParent, CascadeDepth: 0})

	got := e.ApplyToggle(allTrue(), "A", false)

	for id, granted := range got {
		assert.False(t, granted, id)
	}
}

func TestChainModeGrantsToRoot(t *testing.T) {
	e := NewEngine(chainCatalog(), EngineOptions{AncestorMode: AncestorChain, CascadeDepth: 2})

	got := e.ApplyToggle(allFalse(), "D", true)

	assert.True(t, got["A"])
	assert.True(t, got["B"])
	assert.True(t, got["C"])
	assert.True(t, got["D"])
	assert.False(t, got["E"])
}

func TestUnknownItemOnlySetsItself(t *testing.T) {
	e := NewEngine(chainCatalog(), DefaultEngineOptions())

	got := e.ApplyToggle(allTrue(), "ghost", false)
	want := allTrue()
	want["ghost"] = false
	assert.Equal(t, want, got)

	got = e.ApplyToggle(allFalse(), "ghost", true)
	want = allFalse()
	want["ghost"] = true
	assert.Equal(t, want, got)
}

func TestGrantLeavesSiblingsAlone(t *testing.T) {
	e := NewEngine(chainCatalog(), DefaultEngineOptions())

	got := e.ApplyToggle(allFalse(), "E", true)

	assert.True(t, got["A"])
	assert.False(t, got["B"])
}

func TestOptionsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultEngineOptions(), OptionsFromConfig(nil))

	opts := OptionsFromConfig(&config.PermissionConfig{AncestorMode: "chain", CascadeDepth: 0})
	assert.Equal(t, AncestorChain, opts.AncestorMode)
	assert.Equal(t, 0, opts.CascadeDepth)

	opts = OptionsFromConfig(&config.PermissionConfig{AncestorMode: "bogus", CascadeDepth: -1})
	assert.Equal(t, DefaultEngineOptions(), opts)
}
