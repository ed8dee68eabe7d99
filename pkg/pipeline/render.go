package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/render/html"
	"github.com/matzehuels/orgchart/pkg/render/nodelink"
)

// RenderChart rebuilds the chart's tree and serializes it into every
// requested format. It returns the artifacts and the number of visible nodes.
//
// HTML output is a static page: collapsed subtrees are embedded hidden so
// the page works without a server.
func RenderChart(ctx context.Context, c *chart.Chart, opts Options) (map[string][]byte, int, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, 0, err
	}

	var tree, static *render.Tree
	treeFor := func(format string) *render.Tree {
		if format == FormatHTML {
			if static == nil {
				ro := opts.Chart.Render
				ro.IncludeCollapsed = true
				static = c.RenderWith(ro)
			}
			return static
		}
		if tree == nil {
			tree = c.RenderWith(opts.Chart.Render)
		}
		return tree
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	visible := 0
	for _, format := range opts.Formats {
		start := time.Now()
		t := treeFor(format)
		visible = t.Visible
		data, err := Render(ctx, t, format, opts)
		observability.Chart().OnRender(ctx, format, t.Visible, time.Since(start), err)
		if err != nil {
			return nil, 0, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, visible, nil
}

// Render serializes one tree into format.
func Render(ctx context.Context, t *render.Tree, format string, opts Options) ([]byte, error) {
	nl := nodelink.Options{Detailed: opts.Detailed}
	switch format {
	case FormatHTML:
		var buf bytes.Buffer
		if err := html.Render(&buf, t, html.Options{Title: opts.Title}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return render.JSON(t)
	case FormatText:
		return []byte(render.Text(t)), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(t, nl)), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(t, nl))
	case FormatPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOT(t, nl))
	}
	return nil, ValidateFormat(format)
}
