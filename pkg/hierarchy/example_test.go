package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/roster"
)

func Example() {
	r := roster.New([]roster.Record{
		{ID: "E1", Name: "Alice", Role: "CEO"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob", Role: "VP"},
		{ID: "E3", SupervisorID: "E1", Name: "Cara", Role: "VP"},
		{ID: "E4", SupervisorID: "E2", Name: "Dan", Role: "Eng"},
	})
	h := hierarchy.New(r)

	for _, id := range h.DescendantIDs("E1") {
		d, _ := h.Depth(id)
		fmt.Println(d, id)
	}
	fmt.Println("descendants:", h.DescendantCount("E1"))
	// Output:
	// 1 E2
	// 2 E4
	// 1 E3
	// descendants: 3
}
