// Package pipeline provides the load → build → render flow for org charts.
//
// This package is shared by the CLI and the HTTP server so both load rosters,
// apply the same display policies and produce identical artifacts.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: fetch the roster bytes (URL or file, cached) and parse them
//  2. Build: derive the hierarchy and an initial view state in a [chart.Chart]
//  3. Render: rebuild the tree and serialize it (HTML, JSON, text, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "https://example.com/roster.csv",
//	    Formats: []string{pipeline.FormatHTML},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts[pipeline.FormatHTML]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/roster"
	"github.com/matzehuels/orgchart/pkg/view"
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatText = "txt"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options
	Source  string
	Columns roster.Columns
	Refresh bool

	// Build options
	Chart chart.Options

	// Expand and Collapse are layer selectors ("all" or a depth) applied in
	// order after the chart is built.
	Expand   []string
	Collapse []string

	// Render options
	Formats  []string
	Detailed bool
	Title    string

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Roster    *roster.Roster
	Chart     *chart.Chart
	Artifacts map[string][]byte
	Stats     Stats
	CacheHit  bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Skipped    int
	Visible    int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: html, json, txt, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, defaulting to HTML.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatHTML}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	for _, s := range append(append([]string(nil), o.Expand...), o.Collapse...) {
		if _, err := view.ParseSelector(s); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the source and fills in column defaults.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Columns.ID == "" {
		comma := o.Columns.Comma
		o.Columns = roster.DefaultColumns()
		if comma != 0 {
			o.Columns.Comma = comma
		}
	}
	o.setLogger()
	return nil
}

// ValidateForRender fills in render defaults and checks formats.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Title == "" {
		o.Title = "Organization chart"
	}
	if o.Chart.Render.Title == "" {
		o.Chart.Render.Title = o.Title
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
