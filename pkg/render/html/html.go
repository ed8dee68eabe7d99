// Package html renders a chart tree as a standalone HTML page.
//
// The page mounts the chart in #chart_div inside the scrollable
// #chart_outer container and carries the layer controls #layer_filter,
// #expand_btn and #collapse_btn. In interactive mode every control is a form
// posting back to the server, which updates the view state and answers
// with a fully re-rendered page. In static mode the whole tree is embedded
// (collapsed subtrees hidden) and the same controls work client-side.
package html

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/matzehuels/orgchart/pkg/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTmpl  = template.Must(template.New("page.html").Funcs(funcs).ParseFS(templateFS, "templates/page.html"))
	indexTmpl = template.Must(template.New("index.html").ParseFS(templateFS, "templates/index.html"))
)

var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
	"nodeCtx": func(p *Page, n *render.Node) nodeContext {
		return nodeContext{Page: p, Node: n}
	},
}

type nodeContext struct {
	Page *Page
	Node *render.Node
}

// Options configures [Render].
type Options struct {
	Title string

	// Interactive switches controls to server round-trips under ActionBase
	// (for example "/charts/<id>").
	Interactive bool
	ActionBase  string

	// Focus is the id whose children are scrolled into view after load,
	// typically the node that was just toggled.
	Focus string

	// Selected is the layer preselected in #layer_filter ("all" or a depth).
	Selected string

	// Error replaces the chart with a "no chart rendered" message.
	Error string
}

// Page is the template data for a chart page.
type Page struct {
	Options
	Tree           *render.Tree
	GlyphExpanded  string
	GlyphCollapsed string
}

// Render writes the chart page for t.
func Render(w io.Writer, t *render.Tree, opts Options) error {
	if t == nil {
		t = &render.Tree{}
	}
	if opts.Title == "" {
		opts.Title = t.Title
	}
	if opts.Title == "" {
		opts.Title = "Organization chart"
	}
	if opts.Selected == "" {
		opts.Selected = "all"
	}
	return pageTmpl.Execute(w, &Page{
		Options:        opts,
		Tree:           t,
		GlyphExpanded:  render.GlyphExpanded,
		GlyphCollapsed: render.GlyphCollapsed,
	})
}

// Entry is one row of the chart index.
type Entry struct {
	ID        string
	Source    string
	Employees int
	Loaded    time.Time
}

// Index writes the landing page listing loaded charts. A non-empty errMsg
// is shown above the list.
func Index(w io.Writer, title string, charts []Entry, errMsg string) error {
	return indexTmpl.Execute(w, struct {
		Title  string
		Charts []Entry
		Error  string
	}{title, charts, errMsg})
}
