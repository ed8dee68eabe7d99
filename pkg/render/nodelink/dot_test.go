package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/roster"
	"github.com/matzehuels/orgchart/pkg/view"
)

func sampleTree(expand bool) *render.Tree {
	h := hierarchy.New(roster.New([]roster.Record{
		{ID: "E1", Name: "Alice", Role: "CEO"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob", Role: "VP"},
		{ID: "E3", SupervisorID: "E2", Name: "Cara", Role: "Eng"},
	}))
	s := view.New(h)
	if expand {
		s.Toggle("E1")
	}
	return render.Build(h, s, render.Options{IncludeCollapsed: true})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTree(true), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"E1" [label="Alice"`,
		`"E2" [label="Bob", penwidth=2]`,
		`"E1" -> "E2";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"E3"`) {
		t.Errorf("hidden node emitted:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleTree(true), Options{Detailed: true, LeftToRight: true})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Error("LeftToRight not applied")
	}
	if !strings.Contains(dot, `Alice\nCEO\n1 direct report\n1 indirect report`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleTree(false), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("output is not SVG")
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Error("viewBox not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s, want %s", out, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
