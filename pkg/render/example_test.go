package render_test

import (
	"fmt"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/roster"
	"github.com/matzehuels/orgchart/pkg/view"
)

func ExampleBuild() {
	h := hierarchy.New(roster.New([]roster.Record{
		{ID: "E1", Name: "Alice", Role: "CEO"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob", Role: "VP"},
		{ID: "E3", SupervisorID: "E1", Name: "Cara", Role: "VP"},
	}))
	state := view.New(h)
	state.Toggle("E1")

	tree := render.Build(h, state, render.Options{})
	tree.Walk(func(n *render.Node) bool {
		label := n.Name
		if n.HasToggle {
			label = n.Glyph + " " + label
		}
		fmt.Printf("%*s%s (%s)\n", n.Depth*2, "", label, n.DirectLabel)
		return true
	})
	// Output:
	// [-] Alice (2 direct reports)
	//   Bob (0 direct reports)
	//   Cara (0 direct reports)
}
