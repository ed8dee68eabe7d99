// Package pkg provides the libraries behind the orgchart command.
//
// # Overview
//
// Orgchart turns a flat employee roster (one row per employee, each naming
// a supervisor) into a collapsible organization chart. The pkg directory is
// organized by stage:
//
//  1. [roster] - Loading (delimited text from a file or URL, cached)
//  2. [hierarchy] - Derived structure (children, depths, report counts)
//  3. [view] - Expansion state and layer actions
//  4. [render] - Tree rendering and sinks (HTML, JSON, text, Graphviz)
//  5. [chart] - One roster plus its expansion state
//  6. [pipeline] - Orchestration (load → build → render)
//  7. [server] - HTTP browsing surface
//
// # Architecture
//
//	CSV/TSV roster (file or URL)
//	         ↓
//	    [roster] package (records + id index)
//	         ↓
//	    [hierarchy] package (children, depths, counts)
//	         ↓
//	    [render] package (reads [view] state)
//	         ↓
//	    HTML/JSON/TXT/DOT/SVG/PNG
//
// Every interaction mutates the view state and re-renders the whole tree.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/orgchart/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "roster.csv",
//	    Formats: []string{pipeline.FormatHTML},
//	    Expand:  []string{"0"},
//	})
//	os.WriteFile("chart.html", res.Artifacts[pipeline.FormatHTML], 0o644)
//
// # Supporting Packages
//
//   - [cache]: file, redis and null caches for fetched rosters
//   - [config]: TOML/YAML configuration
//   - [errors]: coded errors shared by the CLI and the server
//   - [observability]: hooks and Prometheus metrics
//   - [buildinfo]: version information injected at build time
//
// [roster]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/roster
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/hierarchy
// [view]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/view
// [render]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/render
// [chart]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/chart
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/buildinfo
package pkg
