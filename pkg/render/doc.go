// Package render turns a hierarchy and its view state into a nested visual
// tree, and serializes that tree into output formats.
//
// # Overview
//
// [Build] walks the hierarchy from its roots and produces a [Tree] of
// [Node] values. It is called again after every interaction: there is no
// incremental patching, the whole structure is rebuilt from the current
// expansion flags. Each node carries everything a sink needs: a toggle
// glyph when the node has reports, avatar URLs, the pluralized report
// counts and, when expanded, its children in name order.
//
// Collapsed subtrees are left out unless [Options.IncludeCollapsed] is set,
// in which case they are materialized with Hidden set so a static page can
// reveal them client-side. Either way, expanding a node again reproduces
// the same subtree.
//
// # Sinks
//
//   - [JSON]: machine-readable tree
//   - [Text]: indented outline for terminals
//   - [html]: the interactive page with the chart controls
//   - [nodelink]: Graphviz DOT, SVG and PNG
package render
