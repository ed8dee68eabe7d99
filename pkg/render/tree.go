package render

import (
	"fmt"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// Glyphs shown on nodes that have reports.
const (
	GlyphExpanded  = "[-]"
	GlyphCollapsed = "[+]"
)

// Expander reports the expansion flag of a node.
type Expander interface {
	Expanded(id string) bool
}

// Options configures [Build].
type Options struct {
	// IncludeCollapsed materializes collapsed subtrees with Hidden set.
	IncludeCollapsed bool

	// BranchDepth is the depth used to assign Node.Branch. Nodes at or
	// above it are their own branch.
	BranchDepth int

	// Title is copied to the tree for page headers.
	Title string
}

// Tree is one full rendering of a chart.
type Tree struct {
	Title    string  `json:"title,omitempty"`
	Roots    []*Node `json:"roots"`
	Layers   []int   `json:"layers"`
	Total    int     `json:"total"`
	Visible  int     `json:"visible"`
	Detached int     `json:"detached,omitempty"`
}

// Node is a rendered employee box.
type Node struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          string  `json:"role,omitempty"`
	Depth         int     `json:"depth"`
	Branch        string  `json:"branch,omitempty"`
	HasToggle     bool    `json:"has_toggle"`
	Expanded      bool    `json:"expanded"`
	Glyph         string  `json:"glyph,omitempty"`
	LeftAvatar    string  `json:"left_avatar,omitempty"`
	RightAvatar   string  `json:"right_avatar,omitempty"`
	DirectCount   int     `json:"direct_count"`
	IndirectCount int     `json:"indirect_count"`
	DirectLabel   string  `json:"direct_label"`
	IndirectLabel string  `json:"indirect_label"`
	Hidden        bool    `json:"hidden,omitempty"`
	Detached      bool    `json:"detached,omitempty"`
	Children      []*Node `json:"children,omitempty"`
}

// IsRoot reports whether the node is drawn at the top level.
func (n *Node) IsRoot() bool { return n.Depth == 0 }

// Build renders h from scratch using the expansion flags in state.
//
// Roots come from [hierarchy.Hierarchy.Roots]. Records unreachable from any
// root are appended as detached top-level entries, one per supervisor
// cycle, so they stay visible.
// Every descent keeps the ids on the current path and stops on a repeat.
func Build(h *hierarchy.Hierarchy, state Expander, opts Options) *Tree {
	b := &builder{h: h, state: state, opts: opts}
	t := &Tree{
		Title:  opts.Title,
		Layers: h.Layers(),
		Total:  h.Roster().Len(),
	}
	if t.Layers == nil {
		t.Layers = []int{}
	}

	for _, id := range h.Roots() {
		if n := b.node(id, 0, false, false, map[string]bool{}); n != nil {
			t.Roots = append(t.Roots, n)
		}
	}

	// Entries start at cycle members only; everything else that is detached
	// hangs below one of them.
	covered := make(map[string]bool)
	for _, id := range h.Detached() {
		if covered[id] || !h.InCycle(id) {
			continue
		}
		covered[id] = true
		for _, d := range h.DescendantIDs(id) {
			covered[d] = true
		}
		if n := b.node(id, 0, false, true, map[string]bool{}); n != nil {
			t.Roots = append(t.Roots, n)
			t.Detached++
		}
	}

	t.Visible = b.visible
	return t
}

type builder struct {
	h       *hierarchy.Hierarchy
	state   Expander
	opts    Options
	visible int
}

func (b *builder) node(id string, rel int, hidden, detached bool, path map[string]bool) *Node {
	rec, ok := b.h.Record(id)
	if !ok || path[id] {
		return nil
	}
	path[id] = true
	defer delete(path, id)

	depth, reachable := b.h.Depth(id)
	if !reachable {
		depth = rel
	}

	direct := b.h.DirectCount(id)
	indirect := b.h.IndirectCount(id)
	n := &Node{
		ID:            id,
		Name:          rec.Name,
		Role:          rec.Role,
		Depth:         depth,
		HasToggle:     direct > 0,
		LeftAvatar:    rec.LeftImageURL,
		DirectCount:   direct,
		IndirectCount: indirect,
		DirectLabel:   plural(direct, "direct report"),
		IndirectLabel: plural(indirect, "indirect report"),
		Hidden:        hidden,
		Detached:      detached,
	}
	if reachable {
		n.Branch = b.h.BranchAncestor(id, b.opts.BranchDepth)
	}
	if depth == 0 {
		n.RightAvatar = rec.RightImageURL
	}
	if !hidden {
		b.visible++
	}
	if !n.HasToggle {
		return n
	}

	n.Expanded = b.state.Expanded(id)
	n.Glyph = GlyphCollapsed
	if n.Expanded {
		n.Glyph = GlyphExpanded
	}
	if !n.Expanded && !b.opts.IncludeCollapsed {
		return n
	}

	childHidden := hidden || !n.Expanded
	for _, c := range b.h.Children(id) {
		if child := b.node(c, rel+1, childHidden, detached, path); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Walk calls fn for every node in display order. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				visit(n.Children)
			}
		}
	}
	visit(t.Roots)
}

// Find returns the first node with the given id.
func (t *Tree) Find(id string) *Node {
	var found *Node
	t.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
