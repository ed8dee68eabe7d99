package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/roster"
	"github.com/matzehuels/orgchart/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating loading logic.
//
// The Runner is stateless except for the cache, fetcher and logger: it does
// not keep charts. Multiple goroutines can safely share one Runner.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Fetcher *roster.Fetcher
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	f := roster.NewFetcher(c, logger)
	f.Keyer = keyer
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Fetcher: f,
	}
}

// Execute runs load → build → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	ros, hit, err := r.load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Roster = ros
	result.CacheHit = hit
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Records = ros.Len()
	result.Stats.Skipped = ros.Skipped()

	// Stage 2: Build
	c := r.Build(ros, opts)
	result.Chart = c

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, visible, err := RenderChart(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.Visible = visible
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered chart",
		"formats", opts.Formats,
		"visible", visible,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load fetches and parses the roster named by opts.Source.
func (r *Runner) Load(ctx context.Context, opts Options) (*roster.Roster, error) {
	ros, _, err := r.load(ctx, opts)
	return ros, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*roster.Roster, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	hooks := observability.Chart()
	hooks.OnLoadStart(ctx, opts.Source)
	start := time.Now()

	data, hit, err := r.Fetcher.FetchCached(ctx, opts.Source, opts.Refresh)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Source, 0, time.Since(start), err)
		return nil, false, err
	}
	ros, err := roster.Parse(data, opts.Columns)
	hooks.OnLoadComplete(ctx, opts.Source, rosterLen(ros), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Info("loaded roster",
		"source", opts.Source,
		"records", ros.Len(),
		"duration", time.Since(start).Round(time.Millisecond))
	r.Logger.Debug("roster content", "bytes", len(data), "sha256", cache.Hash(data)[:12], "cached", hit)
	if ros.Skipped() > 0 {
		r.Logger.Debug("skipped rows without id or with repeated id", "rows", ros.Skipped())
	}
	if orphans := ros.Orphans(); len(orphans) > 0 {
		r.Logger.Debug("supervisor not found, shown as roots", "employees", orphans)
	}
	return ros, hit, nil
}

// Build creates a chart for ros and applies the layer actions in opts.
// Selectors are expected to be valid (see ValidateAndSetDefaults).
func (r *Runner) Build(ros *roster.Roster, opts Options) *chart.Chart {
	c := chart.New(ros, opts.Chart)
	for _, s := range opts.Expand {
		if sel, err := view.ParseSelector(s); err == nil {
			c.ExpandLayer(sel, true)
		}
	}
	for _, s := range opts.Collapse {
		if sel, err := view.ParseSelector(s); err == nil {
			c.ExpandLayer(sel, false)
		}
	}
	if n := len(c.Hierarchy().Detached()); n > 0 {
		r.Logger.Warn("supervisor cycle detected, affected employees shown separately", "employees", n)
	}
	return c
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func rosterLen(r *roster.Roster) int {
	if r == nil {
		return 0
	}
	return r.Len()
}
