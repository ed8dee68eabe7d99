// Package nodelink renders a chart tree as a Graphviz node-link diagram.
//
// # Usage
//
// Convert a rendered tree to DOT, then lay it out:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// Only nodes visible in the tree are emitted, so the diagram follows the
// current expansion state exactly like the HTML page does. Collapsed nodes
// with reports are drawn with a bold outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process layout;
// no external Graphviz installation is needed.
package nodelink
