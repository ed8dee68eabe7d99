package hierarchy

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/orgchart/pkg/roster"
)

// genForest draws a well-formed roster: record i reports to some j < i or
// to nobody.
func genForest(t *rapid.T) *roster.Roster {
	n := rapid.IntRange(0, 60).Draw(t, "n")
	records := make([]roster.Record, n)
	for i := range records {
		parent := rapid.IntRange(-1, i-1).Draw(t, fmt.Sprintf("parent%d", i))
		rec := roster.Record{
			ID:   fmt.Sprintf("E%d", i),
			Name: rapid.StringMatching(`[A-Za-z]{0,5}`).Draw(t, fmt.Sprintf("name%d", i)),
		}
		if parent >= 0 {
			rec.SupervisorID = fmt.Sprintf("E%d", parent)
		}
		records[i] = rec
	}
	return roster.New(records)
}

// genAny draws arbitrary supervisor links, including cycles, self links and
// dangling ids.
func genAny(t *rapid.T) *roster.Roster {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	records := make([]roster.Record, n)
	for i := range records {
		parent := rapid.IntRange(-1, n+2).Draw(t, fmt.Sprintf("parent%d", i))
		rec := roster.Record{ID: fmt.Sprintf("E%d", i), Name: fmt.Sprintf("N%d", i%7)}
		if parent >= 0 {
			rec.SupervisorID = fmt.Sprintf("E%d", parent)
		}
		records[i] = rec
	}
	return roster.New(records)
}

func TestPropertyDepth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := genForest(t)
		h := New(r)
		for _, rec := range r.Records() {
			d, ok := h.Depth(rec.ID)
			if !ok {
				t.Fatalf("%s unreachable in a forest", rec.ID)
			}
			if rec.SupervisorID == "" {
				if d != 0 {
					t.Fatalf("root %s depth = %d", rec.ID, d)
				}
				continue
			}
			pd, _ := h.Depth(rec.SupervisorID)
			if d != pd+1 {
				t.Fatalf("depth(%s) = %d, parent depth %d", rec.ID, d, pd)
			}
		}
	})
}

func TestPropertyCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := genAny(t)
		h := New(r)
		for _, id := range h.IDs() {
			if h.DirectCount(id)+h.IndirectCount(id) != h.DescendantCount(id) {
				t.Fatalf("%s: direct %d + indirect %d != descendants %d",
					id, h.DirectCount(id), h.IndirectCount(id), h.DescendantCount(id))
			}
			if !h.HasChildren(id) && h.DescendantCount(id) != 0 {
				t.Fatalf("leaf %s has %d descendants", id, h.DescendantCount(id))
			}
		}
	})
}

func TestPropertyCountsMatchWalk(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New(genForest(t))
		for _, id := range h.IDs() {
			if got, want := h.DescendantCount(id), len(h.DescendantIDs(id)); got != want {
				t.Fatalf("DescendantCount(%s) = %d, walk found %d", id, got, want)
			}
		}
	})
}

func TestPropertyEveryRecordPlaced(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := genAny(t)
		h := New(r)
		placed := len(h.DepthMap()) + len(h.Detached())
		if placed != r.Len() {
			t.Fatalf("reachable %d + detached %d != %d records", len(h.DepthMap()), len(h.Detached()), r.Len())
		}
		for _, id := range h.IDs() {
			_ = h.BranchAncestor(id, 0)
			_ = h.Path(id)
		}
	})
}
