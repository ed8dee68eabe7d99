// Package cli implements the orgchart command-line interface.
//
// # Commands
//
//   - render: write a chart to html, json, txt, dot, svg or png files
//   - serve: browse charts over HTTP
//   - browse: browse a chart in the terminal
//   - stats: summarize a roster
//   - cache: manage the roster cache
//
// Every command reads an optional --config file (TOML or YAML); flags that
// are set explicitly override it. The logger is carried in the command
// context (see loggerFromContext).
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "orgchart"

	// redisPrefix namespaces keys in a shared redis.
	redisPrefix = "orgchart:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Orgchart renders employee rosters as collapsible org charts",
		Long:         `Orgchart reads a delimited employee roster (file or URL), builds the reporting hierarchy and renders it as an interactive chart: static HTML, JSON, text, Graphviz, a local web server or a terminal browser.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml or .yaml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads --config, or returns defaults when it is not set.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "config", cfg)
	return cfg, nil
}

// chartFlags are the display flags shared by render, serve, browse and stats.
type chartFlags struct {
	delimiter        string
	autoExpand       int
	branchDepth      int
	duplicateRoot    string
	includeCollapsed bool
	title            string
	noCache          bool
	refresh          bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", "", `field delimiter: "," (default), "tab" or any single character`)
	cmd.Flags().IntVar(&f.autoExpand, "auto-expand", 0, "expand the top N layers on load")
	cmd.Flags().IntVar(&f.branchDepth, "branch-depth", 0, "depth of the ancestor that names each branch")
	cmd.Flags().StringVar(&f.duplicateRoot, "duplicate-root", "", "show the root with this name a second time, leading the forest")
	cmd.Flags().BoolVar(&f.includeCollapsed, "include-collapsed", false, "include collapsed subtrees as hidden nodes")
	cmd.Flags().StringVar(&f.title, "title", "", "chart title")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the roster cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch cached rosters")
}

// apply overrides cfg with the flags set on cmd.
func (f *chartFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if flags.Changed("auto-expand") {
		cfg.Display.AutoExpandLayers = f.autoExpand
	}
	if flags.Changed("branch-depth") {
		cfg.Display.BranchDepth = f.branchDepth
	}
	if flags.Changed("duplicate-root") {
		cfg.Display.DuplicateRoot = f.duplicateRoot
	}
	if flags.Changed("include-collapsed") {
		cfg.Display.IncludeCollapsed = f.includeCollapsed
	}
	if flags.Changed("title") {
		cfg.Display.Title = f.title
	}
	if f.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	return cfg.Validate()
}

// sourceArg picks the roster source from args, falling back to the config.
func sourceArg(args []string, cfg config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Source
}

// pipelineOptions converts a config into pipeline options for source.
func pipelineOptions(cfg config.Config, source string, refresh bool) pipeline.Options {
	return pipeline.Options{
		Source:  source,
		Columns: cfg.RosterColumns(),
		Refresh: refresh,
		Title:   cfg.Display.Title,
		Chart: chart.Options{
			AutoExpandLayers: cfg.Display.AutoExpandLayers,
			DuplicateRoot:    cfg.Display.DuplicateRoot,
			Render: render.Options{
				IncludeCollapsed: cfg.Display.IncludeCollapsed,
				BranchDepth:      cfg.Display.BranchDepth,
				Title:            cfg.Display.Title,
			},
		},
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Namespace+":")
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.Fetcher.TTL = cfg.Cache.TTL.Std()
	return r, nil
}

func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL, redisPrefix)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/orgchart/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
