// Package view holds the expand/collapse state of a rendered chart.
//
// State is a map from employee id to an expanded flag; ids without an entry
// are collapsed. It is the only mutable piece of a chart: the roster and
// hierarchy it refers to are read through the [Layout] interface and never
// modified. Every mutation is expected to be followed by a full re-render.
package view

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Layout is the read-only view of a hierarchy that State needs.
type Layout interface {
	HasChildren(id string) bool
	Depth(id string) (int, bool)
	IDs() []string
}

// State maps ids to their expansion flag.
type State struct {
	layout   Layout
	expanded map[string]bool
}

// New creates an all-collapsed state over layout.
func New(layout Layout) *State {
	return &State{layout: layout, expanded: make(map[string]bool)}
}

// Expanded reports whether id is expanded. Unknown ids are collapsed.
func (s *State) Expanded(id string) bool {
	return s.expanded[id]
}

// Toggle flips the flag of id and returns true. Ids without children are
// left untouched and return false.
func (s *State) Toggle(id string) bool {
	if !s.layout.HasChildren(id) {
		return false
	}
	s.set(id, !s.expanded[id])
	return true
}

// Set assigns the flag of id directly. Leaves are ignored.
func (s *State) Set(id string, expanded bool) {
	if s.layout.HasChildren(id) {
		s.set(id, expanded)
	}
}

func (s *State) set(id string, expanded bool) {
	if expanded {
		s.expanded[id] = true
	} else {
		delete(s.expanded, id)
	}
}

// ExpandLayer sets the flag to expand for every id with children that the
// selector matches and returns how many ids it touched. Ids outside the
// selected layer keep their state.
func (s *State) ExpandLayer(sel Selector, expand bool) int {
	n := 0
	for _, id := range s.layout.IDs() {
		if !s.layout.HasChildren(id) || !sel.Match(s.layout, id) {
			continue
		}
		s.set(id, expand)
		n++
	}
	return n
}

// AutoExpand expands every node above the given number of layers, so
// AutoExpand(2) opens depths 0 and 1.
func (s *State) AutoExpand(layers int) {
	for d := 0; d < layers; d++ {
		s.ExpandLayer(Layer(d), true)
	}
}

// Reset collapses everything.
func (s *State) Reset() {
	clear(s.expanded)
}

// Snapshot returns the sorted ids that are currently expanded.
func (s *State) Snapshot() []string {
	return slices.Sorted(maps.Keys(s.expanded))
}

// Restore replaces the state with the given expanded ids. Ids that no
// longer have children are dropped.
func (s *State) Restore(ids []string) {
	s.Reset()
	for _, id := range ids {
		s.Set(id, true)
	}
}

// Rebind points the state at a new layout, keeping the flags of ids that
// still have children there.
func (s *State) Rebind(layout Layout) {
	ids := s.Snapshot()
	s.layout = layout
	s.Restore(ids)
}

// Selector picks the ids a layer action applies to.
type Selector struct {
	all   bool
	depth int
}

// All matches every id.
func All() Selector { return Selector{all: true} }

// Layer matches ids at exactly depth d.
func Layer(d int) Selector { return Selector{depth: d} }

// Match reports whether id falls under the selector.
func (s Selector) Match(layout Layout, id string) bool {
	if s.all {
		return true
	}
	d, ok := layout.Depth(id)
	return ok && d == s.depth
}

// IsAll reports whether the selector matches every layer.
func (s Selector) IsAll() bool { return s.all }

// Depth returns the selected layer; meaningless when IsAll.
func (s Selector) Depth() int { return s.depth }

// String returns "all" or the layer number.
func (s Selector) String() string {
	if s.all {
		return "all"
	}
	return strconv.Itoa(s.depth)
}

// ParseSelector accepts "all" or a non-negative layer number.
func ParseSelector(v string) (Selector, error) {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return All(), nil
	}
	d, err := strconv.Atoi(v)
	if err != nil || d < 0 {
		return Selector{}, errors.New(errors.ErrCodeInvalidSelector, "invalid layer %q: want \"all\" or a non-negative number", v)
	}
	return Layer(d), nil
}
