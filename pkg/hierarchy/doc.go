// Package hierarchy derives the reporting tree from a [roster.Roster].
//
// Every record names at most one supervisor, so the roster describes a
// forest of parent pointers. [New] inverts those pointers into a children
// index, assigns each reachable employee a depth with a breadth-first walk
// from all roots at once, and counts descendants bottom-up. The result is
// read-only; a new roster means a new Hierarchy.
//
// # Roots and orphans
//
// An employee is a root when its supervisor id is empty or names no record.
// Roots are returned in name order. A [RootPolicy] may rewrite that list for
// display, for example [DuplicateRoot] which repeats a shareholder node at
// the front of the chart.
//
// # Malformed rosters
//
// Records whose supervisor chain loops back on itself are unreachable from
// any root. They have no depth, are reported by [Hierarchy.Detached], and
// every walk in this package carries a visited set so such rosters
// terminate instead of looping.
package hierarchy
