package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// defaultTop is the number of largest teams listed by stats.
const defaultTop = 10

type statsOpts struct {
	chartFlags
	top  int
	json bool
}

// teamStat is one manager row in the stats output.
type teamStat struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Depth    int    `json:"depth"`
	Direct   int    `json:"direct"`
	Indirect int    `json:"indirect"`
}

type statsReport struct {
	Source string      `json:"source"`
	Stats  chart.Stats `json:"stats"`
	Teams  []teamStat  `json:"largest_teams"`
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var opts statsOpts

	cmd := &cobra.Command{
		Use:   "stats [source]",
		Short: "Summarize a roster: layers, roots, orphans and the largest teams",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runStats(cmd.Context(), cfg, sourceArg(args, cfg), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&opts.top, "top", defaultTop, "number of largest teams to list")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) runStats(ctx context.Context, cfg config.Config, source string, opts *statsOpts) error {
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipelineOptions(cfg, source, opts.refresh)
	popts.Logger = loggerFromContext(ctx)
	ros, err := runner.Load(ctx, popts)
	if err != nil {
		return err
	}
	ch := runner.Build(ros, popts)

	report := statsReport{
		Source: source,
		Stats:  ch.Stats(),
		Teams:  largestTeams(ch.Hierarchy(), opts.top),
	}
	if opts.json {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	printStats(report)
	return nil
}

// largestTeams returns up to n managers ordered by total reports, then by
// direct reports, then by id.
func largestTeams(h *hierarchy.Hierarchy, n int) []teamStat {
	var out []teamStat
	for _, id := range h.IDs() {
		direct := h.DirectCount(id)
		if direct == 0 {
			continue
		}
		rec, _ := h.Record(id)
		depth, _ := h.Depth(id)
		out = append(out, teamStat{
			ID:       id,
			Name:     rec.Name,
			Role:     rec.Role,
			Depth:    depth,
			Direct:   direct,
			Indirect: h.IndirectCount(id),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Direct+out[i].Indirect, out[j].Direct+out[j].Indirect
		if ti != tj {
			return ti > tj
		}
		if out[i].Direct != out[j].Direct {
			return out[i].Direct > out[j].Direct
		}
		return out[i].ID < out[j].ID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func printStats(r statsReport) {
	s := r.Stats
	fmt.Println(StyleTitle.Render(r.Source))
	printKeyValue("Employees", strconv.Itoa(s.Employees))
	printKeyValue("Roots", strconv.Itoa(s.Roots))
	printKeyValue("Layers", strconv.Itoa(len(s.PerLayer)))
	if s.Skipped > 0 {
		printWarning("%d rows skipped (missing or repeated id)", s.Skipped)
	}
	if s.Orphans > 0 {
		printWarning("%d employees report to an unknown supervisor", s.Orphans)
	}
	if s.Detached > 0 {
		printWarning("%d employees are caught in a reporting cycle", s.Detached)
	}
	fmt.Println()

	layers := make([][]string, len(s.PerLayer))
	for d, n := range s.PerLayer {
		layers[d] = []string{strconv.Itoa(d), strconv.Itoa(n)}
	}
	fmt.Println(statsTable([]string{"Layer", "Employees"}, layers).Render())

	if len(r.Teams) == 0 {
		return
	}
	rows := make([][]string, len(r.Teams))
	for i, t := range r.Teams {
		rows[i] = []string{t.Name, t.Role, strconv.Itoa(t.Depth), strconv.Itoa(t.Direct), strconv.Itoa(t.Indirect)}
	}
	fmt.Println()
	fmt.Println(statsTable([]string{"Manager", "Role", "Layer", "Direct", "Indirect"}, rows).Render())
}

func statsTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col > 0 && headers[col] != "Role" {
				return StyleNumber
			}
			return StyleValue
		})
}
