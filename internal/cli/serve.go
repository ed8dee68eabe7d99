package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/server"
)

type serveOpts struct {
	chartFlags
	addr    string
	metrics bool
	watch   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [source...]",
		Short: "Browse org charts over HTTP",
		Long: `Serve loads each given roster as a chart and serves it over HTTP.

Every click re-renders the chart on the server. More rosters can be loaded
from the index page. The first source that loads becomes the default chart at /.`,
		Example: `  orgchart serve roster.csv
  orgchart serve roster.csv --watch --metrics --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = opts.addr
			}
			if flags.Changed("metrics") {
				cfg.Server.Metrics = opts.metrics
			}
			if flags.Changed("watch") {
				cfg.Server.Watch = opts.watch
			}
			sources := args
			if len(sources) == 0 && cfg.Source != "" {
				sources = []string{cfg.Source}
			}
			return c.runServe(cmd.Context(), cfg, sources)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload roster files when they change")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, sources []string) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	var reg *prometheus.Registry
	if cfg.Server.Metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		p := observability.NewPrometheus(reg)
		observability.SetChartHooks(p)
		observability.SetCacheHooks(p)
		observability.SetHTTPHooks(p)
		defer observability.Reset()
	}

	srv := server.New(runner, componentLogger(logger, "server"), server.Options{
		Addr:     cfg.Server.Addr,
		Defaults: pipelineOptions(cfg, "", false),
		Registry: reg,
		Watch:    cfg.Server.Watch,
	})

	defaulted := false
	for _, src := range sources {
		id, err := srv.Load(ctx, src)
		if err != nil {
			printError("%s: %s", src, errors.UserMessage(err))
			continue
		}
		if !defaulted {
			srv.SetDefault(id)
			defaulted = true
		}
	}

	printSuccess("Serving on %s", StyleLink.Render(displayURL(cfg.Server.Addr)))
	return srv.Run(ctx)
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
