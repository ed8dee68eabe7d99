package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orgchart/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the role and report counts to each label.
	// When false, only the name is shown.
	Detailed bool

	// LeftToRight lays the chart out horizontally.
	LeftToRight bool
}

// ToDOT converts the visible part of a tree to Graphviz DOT.
func ToDOT(t *render.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	// Roots may repeat under a root policy; emit each node once.
	seen := make(map[string]bool)
	var edges []string
	t.Walk(func(n *render.Node) bool {
		if n.Hidden {
			return false
		}
		if !seen[n.ID] {
			seen[n.ID] = true
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
		for _, c := range n.Children {
			if !c.Hidden {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.ID, c.ID))
			}
		}
		return true
	})

	buf.WriteString("\n")
	emitted := make(map[string]bool)
	for _, e := range edges {
		if !emitted[e] {
			emitted[e] = true
			buf.WriteString(e)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *render.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name}
	if n.Role != "" {
		parts = append(parts, n.Role)
	}
	if n.HasToggle {
		parts = append(parts, n.DirectLabel, n.IndirectLabel)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *render.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if n.HasToggle && !n.Expanded {
		attrs = append(attrs, "penwidth=2")
	}
	if n.Detached {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG lays out a DOT graph and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out a DOT graph and returns PNG bytes.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
