package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// defaultOutput is the base name used when neither -o nor a file source
// gives one.
const defaultOutput = "orgchart"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chartFlags
	output   string   // output file (single format) or base path (multiple)
	formats  string   // comma-separated formats
	expand   []string // layer selectors to expand, applied in order
	collapse []string // layer selectors to collapse, applied after expand
	detailed bool     // show roles in Graphviz labels
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a roster to html, json, txt, dot, svg or png",
		Long: `Render loads a roster from a file or http(s) URL and writes the chart.

HTML output is a standalone page that works without a server: collapsed
subtrees are embedded and toggled in the browser. The other formats show
the chart as currently expanded (see --expand and --auto-expand).`,
		Example: `  orgchart render roster.csv
  orgchart render https://example.com/roster.csv -f html,svg -o out/acme
  orgchart render roster.tsv -d tab --expand all -f txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, sourceArg(args, cfg), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): html (default), json, txt, dot, svg, png (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.expand, "expand", nil, `expand layers: "all" or a depth (repeatable)`)
	cmd.Flags().StringSliceVar(&opts.collapse, "collapse", nil, `collapse layers: "all" or a depth (repeatable)`)
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include roles in Graphviz output")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg config.Config, source string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	popts := pipelineOptions(cfg, source, opts.refresh)
	popts.Formats = pipeline.ParseFormats(opts.formats)
	popts.Expand = opts.expand
	popts.Collapse = opts.collapse
	popts.Detailed = opts.detailed
	popts.Logger = logger
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if errors.IsURL(source) {
		spin = newSpinnerWithContext(ctx, "Fetching "+source)
		spin.Start()
	}
	res, err := runner.Execute(ctx, popts)
	if spin != nil {
		if err != nil {
			spin.StopWithError("Fetch failed")
		} else {
			spin.StopWithSuccess("Fetched " + source)
		}
	}
	if err != nil {
		if errors.IsNotFound(err) && !errors.IsURL(source) {
			printDetail("Check the path, or pass a source in --config")
		}
		return err
	}

	fmt.Println(rosterLine(res.Stats.Records, res.Stats.Skipped, res.CacheHit))

	paths := outputPaths(opts.output, source, popts.Formats)
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	for _, f := range formats {
		if err := writeOutput(paths[f], res.Artifacts[f]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", f, "path", paths[f], "bytes", len(res.Artifacts[f]))
		printFile(paths[f])
	}
	prog.done(fmt.Sprintf("Rendered %d of %d employees", res.Stats.Visible, res.Stats.Records),
		"formats", len(formats), "cached", res.CacheHit)

	if _, ok := paths[pipeline.FormatHTML]; ok {
		printNextStep("Browse interactively", appName+" serve "+source)
	}
	return nil
}

// outputPaths maps each format to its file. A single format writes to
// output as given; several formats share a base path.
func outputPaths(output, source string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, source)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path. Without -o it is the source file
// name without extension, in the working directory; URLs use defaultOutput.
// A known format extension on output is stripped.
func basePath(output, source string) string {
	if output == "" {
		if errors.IsURL(source) {
			return defaultOutput
		}
		name := filepath.Base(source)
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
