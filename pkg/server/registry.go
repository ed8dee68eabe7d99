package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/orgchart/pkg/chart"
)

type entry struct {
	id      string
	source  string
	chart   *chart.Chart
	created time.Time
}

// registry holds the charts served by one process.
type registry struct {
	mu     sync.RWMutex
	charts map[string]*entry
}

func newRegistry() *registry {
	return &registry{charts: make(map[string]*entry)}
}

func (r *registry) add(source string, c *chart.Chart) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.charts[id] = &entry{id: id, source: source, chart: c, created: time.Now()}
	return id
}

func (r *registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.charts[id]
	return e, ok
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.charts[id]; !ok {
		return false
	}
	delete(r.charts, id)
	return true
}

// list returns entries oldest first.
func (r *registry) list() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, 0, len(r.charts))
	for _, e := range r.charts {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].created.Before(out[j].created) })
	return out
}

func (r *registry) bySource(source string) []*entry {
	var out []*entry
	for _, e := range r.list() {
		if e.source == source {
			out = append(out, e)
		}
	}
	return out
}

func (r *registry) sources() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.list() {
		if !seen[e.source] {
			seen[e.source] = true
			out = append(out, e.source)
		}
	}
	return out
}
