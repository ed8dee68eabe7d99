package hierarchy

// RootPolicy rewrites the root list for display. It receives the roots in
// name order and may reorder, drop or repeat ids.
type RootPolicy func(h *Hierarchy, roots []string) []string

// DuplicateRoot repeats every root whose name equals name at the front of
// the list, so a shareholder node heads the chart while still appearing in
// its sorted position.
func DuplicateRoot(name string) RootPolicy {
	return func(h *Hierarchy, roots []string) []string {
		var front []string
		for _, id := range roots {
			if rec, ok := h.Record(id); ok && rec.Name == name {
				front = append(front, id)
			}
		}
		if len(front) == 0 {
			return roots
		}
		return append(front, roots...)
	}
}
