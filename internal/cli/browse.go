package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/render"
	"github.com/matzehuels/orgchart/pkg/view"
)

var (
	browseCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseLayerStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "browse [source]",
		Short: "Browse an org chart in the terminal",
		Long: `Browse loads a roster and shows the chart as a collapsible tree.

Keys:
  ↑/↓ j/k      move
  enter/space  expand or collapse the selected employee
  tab          cycle the layer selector (all, 0, 1, ...)
  e / c        expand / collapse the selected layer
  r            reset
  q            quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), cfg, sourceArg(args, cfg), flags.refresh)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, cfg config.Config, source string, refresh bool) error {
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipelineOptions(cfg, source, refresh)
	opts.Logger = loggerFromContext(ctx)
	ros, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	ch := runner.Build(ros, opts)

	p := tea.NewProgram(newBrowseModel(ctx, ch, source), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// browseRow is one visible line of the tree.
type browseRow struct {
	node  *render.Node
	level int
}

// browseModel is the bubbletea model for the browse command.
type browseModel struct {
	ctx    context.Context
	chart  *chart.Chart
	source string

	tree   *render.Tree
	rows   []browseRow
	cursor int
	offset int
	height int

	// layer is the selector index: 0 is "all", i > 0 is depth i-1.
	layer  int
	status string
}

func newBrowseModel(ctx context.Context, ch *chart.Chart, source string) browseModel {
	m := browseModel{ctx: ctx, chart: ch, source: source, height: 20}
	m.refresh("")
	return m
}

// refresh re-renders the chart and keeps the cursor on keepID when it is
// still visible.
func (m *browseModel) refresh(keepID string) {
	m.tree = m.chart.Render()
	m.rows = nil
	var visit func(nodes []*render.Node, level int)
	visit = func(nodes []*render.Node, level int) {
		for _, n := range nodes {
			if n.Hidden {
				continue
			}
			m.rows = append(m.rows, browseRow{node: n, level: level})
			visit(n.Children, level+1)
		}
	}
	visit(m.tree.Roots, 0)

	if keepID != "" {
		for i, r := range m.rows {
			if r.node.ID == keepID {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.scroll()
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m browseModel) selector() view.Selector {
	if m.layer == 0 {
		return view.All()
	}
	return view.Layer(m.layer - 1)
}

func (m browseModel) current() *render.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.scroll()
			}
		case "enter", " ":
			if n := m.current(); n != nil && n.HasToggle {
				changed := 0
				if m.chart.Toggle(n.ID) {
					changed = 1
				}
				observability.Chart().OnInteraction(m.ctx, "toggle", changed)
				m.status = ""
				m.refresh(n.ID)
			}
		case "tab":
			m.layer = (m.layer + 1) % (len(m.tree.Layers) + 1)
		case "shift+tab":
			m.layer = (m.layer + len(m.tree.Layers)) % (len(m.tree.Layers) + 1)
		case "e", "c":
			m.applyLayer(msg.String() == "e")
		case "r":
			m.chart.Reset()
			m.status = "reset"
			m.refresh(m.currentID())
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-5, 5)
		m.scroll()
	}
	return m, nil
}

func (m *browseModel) applyLayer(expand bool) {
	action := "collapse"
	if expand {
		action = "expand"
	}
	sel := m.selector()
	n := m.chart.ExpandLayer(sel, expand)
	observability.Chart().OnInteraction(m.ctx, action, n)
	m.status = fmt.Sprintf("%s layer %s: %d changed", action, sel, n)
	m.refresh(m.currentID())
}

func (m browseModel) currentID() string {
	if n := m.current(); n != nil {
		return n.ID
	}
	return ""
}

func (m browseModel) View() string {
	var b strings.Builder

	title := m.tree.Title
	if title == "" {
		title = m.source
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(browseLayerStyle.Render("layer: " + m.selector().String()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ⏎ toggle  tab layer  e expand  c collapse  r reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		line := strings.Repeat("  ", r.level) + render.TextLabel(r.node)
		if r.node.Detached {
			line += " " + StyleWarning.Render("(detached)")
		}
		if i == m.cursor {
			b.WriteString(browseCursorStyle.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("  [%d/%d] %d of %d employees shown", m.cursor+1, len(m.rows), m.tree.Visible, m.tree.Total)
	if m.status != "" {
		status += " · " + m.status
	}
	b.WriteString(browseStatusStyle.Render(status))
	return b.String()
}
