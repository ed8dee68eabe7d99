package hierarchy

// DescendantIDs returns every transitive report of id in depth-first,
// name-ordered sequence. Unknown ids yield nil. Each id is visited at most
// once, so a supervisor cycle ends the walk with the ids seen so far.
func (h *Hierarchy) DescendantIDs(id string) []string {
	if !h.roster.Has(id) {
		return nil
	}
	visited := map[string]bool{id: true}
	var out []string
	stack := reversed(h.children[id])
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		stack = append(stack, reversed(h.children[cur])...)
	}
	return out
}

// BranchAncestor walks up supervisor links from id until it reaches a node
// whose depth is at most threshold and returns that node. The walk stops at
// the last valid node when a supervisor is missing or a cycle is detected.
// Unknown ids return "".
func (h *Hierarchy) BranchAncestor(id string, threshold int) string {
	if !h.roster.Has(id) {
		return ""
	}
	visited := make(map[string]bool)
	cur := id
	for {
		if d, ok := h.depth[cur]; ok && d <= threshold {
			return cur
		}
		visited[cur] = true
		rec, _ := h.roster.Get(cur)
		parent := rec.SupervisorID
		if parent == "" || !h.roster.Has(parent) || visited[parent] {
			return cur
		}
		cur = parent
	}
}

// Path returns the chain of ids from the topmost reachable ancestor down
// to id. Cycles are cut at the first repeated id.
func (h *Hierarchy) Path(id string) []string {
	if !h.roster.Has(id) {
		return nil
	}
	visited := make(map[string]bool)
	var up []string
	for cur := id; cur != "" && h.roster.Has(cur) && !visited[cur]; {
		visited[cur] = true
		up = append(up, cur)
		rec, _ := h.roster.Get(cur)
		cur = rec.SupervisorID
	}
	return reversed(up)
}

// InCycle reports whether following supervisor links from id leads back to
// id. Employees that merely report into a cycle are not members.
func (h *Hierarchy) InCycle(id string) bool {
	if !h.roster.Has(id) {
		return false
	}
	visited := make(map[string]bool)
	for cur := id; ; {
		visited[cur] = true
		rec, _ := h.roster.Get(cur)
		next := rec.SupervisorID
		if next == id {
			return true
		}
		if next == "" || !h.roster.Has(next) || visited[next] {
			return false
		}
		cur = next
	}
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
