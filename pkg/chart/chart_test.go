package chart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/orgchart/pkg/roster"
	"github.com/matzehuels/orgchart/pkg/view"
)

func sampleRoster() *roster.Roster {
	return roster.New([]roster.Record{
		{ID: "E1", Name: "Alice", Role: "CEO"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob", Role: "VP"},
		{ID: "E3", SupervisorID: "E1", Name: "Cara", Role: "VP"},
		{ID: "E4", SupervisorID: "E2", Name: "Dan", Role: "Eng"},
		{ID: "E5", SupervisorID: "E4", Name: "Eve", Role: "Eng"},
	})
}

func TestNewCollapsedByDefault(t *testing.T) {
	c := New(sampleRoster(), Options{})
	tree := c.Render()
	require.Len(t, tree.Roots, 1)
	require.False(t, tree.Roots[0].Expanded)
	require.Empty(t, tree.Roots[0].Children)
}

func TestAutoExpand(t *testing.T) {
	c := New(sampleRoster(), Options{AutoExpandLayers: 2})
	require.True(t, c.Expanded("E1"))
	require.True(t, c.Expanded("E2"))
	require.False(t, c.Expanded("E4"))

	c.ExpandLayer(view.All(), false)
	require.False(t, c.Expanded("E1"))

	c.Reset()
	require.True(t, c.Expanded("E1"), "Reset re-applies auto expansion")
}

func TestToggleAndLayers(t *testing.T) {
	c := New(sampleRoster(), Options{})

	require.True(t, c.Toggle("E1"))
	require.False(t, c.Toggle("E3"), "leaf toggle is a no-op")
	require.True(t, c.Expanded("E1"))

	n := c.ExpandLayer(view.Layer(2), true)
	require.Equal(t, 1, n)
	require.True(t, c.Expanded("E4"))
	require.False(t, c.Expanded("E2"), "other layers untouched")

	tree := c.Render()
	root := tree.Roots[0]
	require.Len(t, root.Children, 2)
	require.Equal(t, "Bob", root.Children[0].Name)
	require.Empty(t, root.Children[0].Children, "Bob is still collapsed")
}

func TestReloadKeepsSurvivingFlags(t *testing.T) {
	c := New(sampleRoster(), Options{})
	c.ExpandLayer(view.All(), true)

	c.Reload(roster.New([]roster.Record{
		{ID: "E1", Name: "Alice"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob"},
		{ID: "E4", Name: "Dan"},
		{ID: "E5", SupervisorID: "E4", Name: "Eve"},
	}))

	require.False(t, c.Expanded("E2"), "E2 has no reports any more")
	require.True(t, c.Expanded("E1"))
	require.True(t, c.Expanded("E4"))
	require.Len(t, c.Render().Roots, 2)
}

func TestStats(t *testing.T) {
	r := roster.New([]roster.Record{
		{ID: "E1", Name: "Alice"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob"},
		{ID: "E3", SupervisorID: "gone", Name: "Orphan"},
		{ID: "", Name: "skipped"},
		{ID: "C1", SupervisorID: "C2", Name: "Loop"},
		{ID: "C2", SupervisorID: "C1", Name: "Loop"},
	})
	c := New(r, Options{})
	c.Toggle("E1")

	s := c.Stats()
	require.Equal(t, 5, s.Employees)
	require.Equal(t, 1, s.Skipped)
	require.Equal(t, 2, s.Roots)
	require.Equal(t, 1, s.Orphans)
	require.Equal(t, 2, s.Detached)
	require.Equal(t, 1, s.MaxDepth)
	require.Equal(t, 1, s.Expanded)
	require.Equal(t, []int{2, 1}, s.PerLayer)
}

func TestConcurrentUse(t *testing.T) {
	c := New(sampleRoster(), Options{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Toggle("E1")
				_ = c.Render()
				_ = c.Stats()
			}
		}()
	}
	wg.Wait()
	// 8*50 toggles is even, so the flag is back where it started.
	require.False(t, c.Expanded("E1"))
}
