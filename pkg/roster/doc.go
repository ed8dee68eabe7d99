// Package roster loads the flat employee table an org chart is built from.
//
// A roster is a header-led delimited file with one row per employee. Each row
// names its supervisor by id; the hierarchy itself is derived later by
// package hierarchy. Loading is deliberately forgiving:
//
//   - every field is trimmed, and an empty field counts as absent
//   - rows without an Employee ID are dropped
//   - when an id repeats, the first row wins
//   - a blank or self-referencing Supervisor ID marks a root
//
// Dropped rows are counted in [Roster.Skipped] so callers can report them.
//
// # Sources
//
// [Fetcher] reads a roster from an http(s) URL or from disk. Remote bodies
// are kept in a [cache.Cache] so that reloading a chart does not refetch.
package roster
