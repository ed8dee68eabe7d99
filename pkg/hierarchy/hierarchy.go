package hierarchy

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matzehuels/orgchart/pkg/roster"
)

// Hierarchy is the derived tree over a roster snapshot.
type Hierarchy struct {
	roster      *roster.Roster
	children    map[string][]string
	roots       []string
	display     []string
	depth       map[string]int
	descendants map[string]int
	detached    []string
	maxDepth    int
}

// Option configures [New].
type Option func(*config)

type config struct {
	lang   language.Tag
	policy RootPolicy
}

// WithLanguage sets the collation used to order names. Defaults to the
// root locale.
func WithLanguage(tag language.Tag) Option {
	return func(c *config) { c.lang = tag }
}

// WithRootPolicy installs a display policy for [Hierarchy.Roots].
func WithRootPolicy(p RootPolicy) Option {
	return func(c *config) { c.policy = p }
}

// New builds the hierarchy for r. The children index, depth map and
// descendant counts are computed once here.
func New(r *roster.Roster, opts ...Option) *Hierarchy {
	cfg := config{lang: language.Und}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Hierarchy{
		roster:      r,
		children:    make(map[string][]string),
		depth:       make(map[string]int, r.Len()),
		descendants: make(map[string]int, r.Len()),
	}

	for _, rec := range r.Records() {
		if rec.SupervisorID == "" || !r.Has(rec.SupervisorID) {
			h.roots = append(h.roots, rec.ID)
			continue
		}
		h.children[rec.SupervisorID] = append(h.children[rec.SupervisorID], rec.ID)
	}

	byName := h.nameOrder(cfg.lang)
	byName(h.roots)
	for _, ids := range h.children {
		byName(ids)
	}

	order := h.assignDepths()
	h.countDescendants(order)

	for _, rec := range r.Records() {
		if _, ok := h.depth[rec.ID]; !ok {
			h.detached = append(h.detached, rec.ID)
		}
	}
	byName(h.detached)
	for _, id := range h.detached {
		h.descendants[id] = len(h.DescendantIDs(id))
	}

	h.display = h.roots
	if cfg.policy != nil {
		h.display = cfg.policy(h, append([]string(nil), h.roots...))
	}
	return h
}

// nameOrder returns a sorter that orders ids by collated name, then id.
func (h *Hierarchy) nameOrder(lang language.Tag) func([]string) {
	coll := collate.New(lang, collate.IgnoreCase)
	return func(ids []string) {
		sort.SliceStable(ids, func(i, j int) bool {
			a, _ := h.roster.Get(ids[i])
			b, _ := h.roster.Get(ids[j])
			if c := coll.CompareString(a.Name, b.Name); c != 0 {
				return c < 0
			}
			return a.ID < b.ID
		})
	}
}

// assignDepths runs a multi-source BFS from all roots and returns the
// visit order.
func (h *Hierarchy) assignDepths() []string {
	order := make([]string, 0, h.roster.Len())
	queue := make([]string, 0, len(h.roots))
	for _, id := range h.roots {
		if _, seen := h.depth[id]; seen {
			continue
		}
		h.depth[id] = 0
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		d := h.depth[id]
		if d > h.maxDepth {
			h.maxDepth = d
		}
		for _, c := range h.children[id] {
			if _, seen := h.depth[c]; seen {
				continue
			}
			h.depth[c] = d + 1
			queue = append(queue, c)
		}
	}
	return order
}

// countDescendants folds subtree sizes in reverse BFS order so every child
// is finished before its parent.
func (h *Hierarchy) countDescendants(order []string) {
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := 0
		for _, c := range h.children[id] {
			n += 1 + h.descendants[c]
		}
		h.descendants[id] = n
	}
}

// Roster returns the underlying roster.
func (h *Hierarchy) Roster() *roster.Roster { return h.roster }

// Record returns the record for id.
func (h *Hierarchy) Record(id string) (roster.Record, bool) { return h.roster.Get(id) }

// IDs returns every record id in load order.
func (h *Hierarchy) IDs() []string {
	ids := make([]string, 0, h.roster.Len())
	for _, rec := range h.roster.Records() {
		ids = append(ids, rec.ID)
	}
	return ids
}

// Roots returns the top-level ids for display: roots in name order after
// the root policy, if any, was applied. Orphans whose supervisor is unknown
// are included.
func (h *Hierarchy) Roots() []string {
	return append([]string(nil), h.display...)
}

// TrueRoots returns the roots in name order, ignoring any root policy.
func (h *Hierarchy) TrueRoots() []string {
	return append([]string(nil), h.roots...)
}

// Children returns the direct reports of id in name order.
func (h *Hierarchy) Children(id string) []string {
	return append([]string(nil), h.children[id]...)
}

// HasChildren reports whether id has at least one direct report.
func (h *Hierarchy) HasChildren(id string) bool {
	return len(h.children[id]) > 0
}

// Depth returns the BFS depth of id. ok is false for unknown ids and for
// ids not reachable from a root.
func (h *Hierarchy) Depth(id string) (depth int, ok bool) {
	depth, ok = h.depth[id]
	return depth, ok
}

// DepthMap returns a copy of the depth of every reachable id.
func (h *Hierarchy) DepthMap() map[string]int {
	m := make(map[string]int, len(h.depth))
	for k, v := range h.depth {
		m[k] = v
	}
	return m
}

// MaxDepth returns the deepest layer.
func (h *Hierarchy) MaxDepth() int { return h.maxDepth }

// Layers returns the depths 0..MaxDepth. An empty roster has no layers.
func (h *Hierarchy) Layers() []int {
	if len(h.depth) == 0 {
		return nil
	}
	layers := make([]int, h.maxDepth+1)
	for i := range layers {
		layers[i] = i
	}
	return layers
}

// DirectCount returns the number of direct reports of id.
func (h *Hierarchy) DirectCount(id string) int {
	return len(h.children[id])
}

// DescendantCount returns the number of transitive reports of id.
func (h *Hierarchy) DescendantCount(id string) int {
	return h.descendants[id]
}

// IndirectCount returns DescendantCount minus DirectCount.
func (h *Hierarchy) IndirectCount(id string) int {
	return h.DescendantCount(id) - h.DirectCount(id)
}

// Detached returns ids unreachable from any root, in name order. These are
// members of supervisor cycles and the employees below them.
func (h *Hierarchy) Detached() []string {
	return append([]string(nil), h.detached...)
}
