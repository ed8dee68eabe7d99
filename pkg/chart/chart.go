// Package chart ties a roster, its hierarchy and one view state together
// into an independent chart instance.
//
// A [Chart] is the unit the CLI and the server work with: it owns the only
// mutable state (which nodes are expanded) and re-renders the full tree on
// demand. Several charts over the same or different rosters can coexist.
// Methods are safe for concurrent use; each call runs to completion under
// the chart's lock.
package chart

import (
	"sync"
	"time"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/roster"
	"github.com/matzehuels/orgchart/pkg/view"
)

// Options configures a chart.
type Options struct {
	// AutoExpandLayers expands the top N layers when the chart is created.
	AutoExpandLayers int

	// DuplicateRoot repeats roots with this name at the front.
	DuplicateRoot string

	// Render is passed to [render.Build].
	Render render.Options
}

// Chart is one roster plus its expansion state.
type Chart struct {
	mu       sync.Mutex
	opts     Options
	roster   *roster.Roster
	h        *hierarchy.Hierarchy
	state    *view.State
	loadedAt time.Time
}

// New builds a chart for r.
func New(r *roster.Roster, opts Options) *Chart {
	c := &Chart{opts: opts}
	c.load(r)
	c.state = view.New(c.h)
	c.state.AutoExpand(opts.AutoExpandLayers)
	return c
}

func (c *Chart) load(r *roster.Roster) {
	var hopts []hierarchy.Option
	if c.opts.DuplicateRoot != "" {
		hopts = append(hopts, hierarchy.WithRootPolicy(hierarchy.DuplicateRoot(c.opts.DuplicateRoot)))
	}
	c.roster = r
	c.h = hierarchy.New(r, hopts...)
	c.loadedAt = time.Now()
}

// Hierarchy returns the current hierarchy. It is read-only and replaced,
// not modified, by Reload.
func (c *Chart) Hierarchy() *hierarchy.Hierarchy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h
}

// Toggle flips id and reports whether anything changed.
func (c *Chart) Toggle(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Toggle(id)
}

// Expanded reports the flag of id.
func (c *Chart) Expanded(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Expanded(id)
}

// ExpandLayer applies a layer action and returns the number of nodes set.
func (c *Chart) ExpandLayer(sel view.Selector, expand bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ExpandLayer(sel, expand)
}

// Reset collapses every node and re-applies auto expansion.
func (c *Chart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Reset()
	c.state.AutoExpand(c.opts.AutoExpandLayers)
}

// Render rebuilds the full tree from the current state.
func (c *Chart) Render() *render.Tree {
	return c.RenderWith(c.opts.Render)
}

// RenderWith rebuilds the tree with explicit render options.
func (c *Chart) RenderWith(opts render.Options) *render.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.Build(c.h, c.state, opts)
}

// Reload swaps in a new roster. Expansion flags are kept for ids that still
// have reports.
func (c *Chart) Reload(r *roster.Roster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(r)
	c.state.Rebind(c.h)
}

// Stats summarizes a chart.
type Stats struct {
	Employees int       `json:"employees"`
	Skipped   int       `json:"skipped"`
	Roots     int       `json:"roots"`
	Orphans   int       `json:"orphans"`
	Detached  int       `json:"detached"`
	MaxDepth  int       `json:"max_depth"`
	Expanded  int       `json:"expanded"`
	PerLayer  []int     `json:"per_layer"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Stats returns counts over the current roster and state.
func (c *Chart) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Employees: c.roster.Len(),
		Skipped:   c.roster.Skipped(),
		Roots:     len(c.h.TrueRoots()),
		Orphans:   len(c.roster.Orphans()),
		Detached:  len(c.h.Detached()),
		MaxDepth:  c.h.MaxDepth(),
		Expanded:  len(c.state.Snapshot()),
		PerLayer:  make([]int, len(c.h.Layers())),
		LoadedAt:  c.loadedAt,
	}
	for _, d := range c.h.DepthMap() {
		s.PerLayer[d]++
	}
	return s
}
