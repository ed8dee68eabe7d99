package html

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/roster"
	"github.com/matzehuels/orgchart/pkg/view"
)

func sampleTree(includeCollapsed bool) *render.Tree {
	h := hierarchy.New(roster.New([]roster.Record{
		{ID: "E1", Name: "Alice", Role: "CEO", LeftImageURL: "https://img/a.png"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob <b>", Role: "VP"},
	}))
	return render.Build(h, view.New(h), render.Options{IncludeCollapsed: includeCollapsed, Title: "Acme"})
}

func TestRenderInteractive(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleTree(false), Options{Interactive: true, ActionBase: "/charts/abc", Focus: "E1"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`id="chart_outer"`,
		`id="chart_div"`,
		`id="expand_btn"`,
		`id="collapse_btn"`,
		`id="layer_filter"`,
		`<option value="1">Layer 1</option>`,
		`action="/charts/abc/toggle/E1"`,
		`action="/charts/abc/layers"`,
		`<title>Acme</title>`,
		`class="avatar-left" src="https://img/a.png"`,
		"1 direct report",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %s", want)
		}
	}
	if strings.Contains(out, "Bob") {
		t.Error("collapsed child rendered in interactive mode")
	}
}

func TestRenderEscapesToggleAction(t *testing.T) {
	h := hierarchy.New(roster.New([]roster.Record{
		{ID: "ops/1", Name: "Alice"},
		{ID: "E2", SupervisorID: "ops/1", Name: "Bob"},
	}))
	tree := render.Build(h, view.New(h), render.Options{})

	var buf bytes.Buffer
	if err := Render(&buf, tree, Options{Interactive: true, ActionBase: "/charts/abc"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `action="/charts/abc/toggle/ops%2F1"`) {
		t.Error("toggle action should path-escape the employee id")
	}
	if strings.Contains(out, "/toggle/ops/1") {
		t.Error("raw slash leaked into the toggle action")
	}
}

func TestRenderStatic(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleTree(true), Options{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `<div class="children" hidden>`) {
		t.Error("collapsed container should be hidden")
	}
	if !strings.Contains(out, "Bob &lt;b&gt;") {
		t.Error("names must be escaped")
	}
	if strings.Contains(out, "/toggle/") {
		t.Error("static page should not post toggles")
	}
	if !strings.Contains(out, `<span class="toggle">[+]</span>`) {
		t.Error("static toggle glyph missing")
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, Options{Error: "fetch failed"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "No chart rendered: fetch failed") {
		t.Error("error message missing")
	}
	if strings.Contains(buf.String(), `id="chart_div"`) {
		t.Error("error page should not mount a chart")
	}
}

func TestIndex(t *testing.T) {
	var buf bytes.Buffer
	charts := []Entry{{ID: "abc", Source: "roster.csv", Employees: 3, Loaded: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}}
	if err := Index(&buf, "Charts", charts, ""); err != nil {
		t.Fatalf("Index: %v", err)
	}
	for _, want := range []string{`href="/charts/abc"`, "roster.csv", "2024-01-02 03:04:05"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("index missing %s", want)
		}
	}
}
