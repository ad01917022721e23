package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/pkg/engine"
	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/graph"
	"github.com/matzehuels/netscope/pkg/render/cells"
)

const (
	// frameInterval is the tick scheduler period while the simulation moves.
	frameInterval = time.Second / 30

	panelWidth = 30 // card panel columns, border included
	chromeRows = 2  // status bar and help line
	panStep    = 4  // cells per arrow key press
)

var (
	viewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	viewPanelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// viewCommand opens the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var opts loadOpts

	cmd := &cobra.Command{
		Use:   "view <network>",
		Short: "Explore a network interactively in the terminal",
		Long: `View draws a network in the terminal and runs the anchor simulation live.

Mouse:
  click node        highlight the node and its neighbors
  click background  clear the highlight
  drag node         move it; it springs back to its anchor on release
  drag background   pan
  wheel             zoom about the cursor

Keys:
  tab / shift+tab   select next / previous node
  arrows            pan
  + / -             zoom
  esc               clear the highlight
  0                 reset the view
  l                 toggle all labels
  r                 reload the network
  q                 quit`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeNetworks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver, cleanup, err := c.newResolver(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			ref := args[0]
			fetch := func(ctx context.Context) (graph.Document, error) {
				ctx, cancel := context.WithTimeout(ctx, defaultLoadTimeout)
				defer cancel()
				return resolver.Open(ctx, ref)
			}

			// Fetch before entering the alternate screen so errors are
			// reported on the normal terminal.
			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", ref))
			spinner.Start()
			doc, err := fetch(ctx)
			spinner.Stop()
			if err != nil {
				return err
			}

			// Engine logs would corrupt the alternate screen.
			eo := c.engineOptions(opts)
			eo.Logger = nil
			m := newViewModel(ctx, eo, doc, fetch)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	addLoadFlags(cmd, &opts)
	return cmd
}

// =============================================================================
// viewModel - Interactive engine driver
// =============================================================================

// tickMsg is delivered by the frame scheduler.
type tickMsg time.Time

// loadedMsg carries the result of a background reload.
type loadedMsg struct {
	seq int
	doc graph.Document
	err error
}

// viewModel owns one engine and translates terminal events into engine
// gestures. The canvas maps cells to screen units through a cells.Grid.
type viewModel struct {
	ctx   context.Context
	opts  engine.Options
	fetch func(context.Context) (graph.Document, error)

	engine *engine.Engine
	doc    graph.Document
	grid   cells.Grid

	// card panel contents, maintained through the engine's Panel
	cardLabel     string
	cardNeighbors []string
	carded        bool

	allLabels bool
	ticking   bool
	lastTick  time.Time
	loading   bool
	seq       int           // reload sequence number
	ticket    engine.Ticket // ticket of the pending reload on the current engine
	status    string
}

func newViewModel(ctx context.Context, opts engine.Options, doc graph.Document, fetch func(context.Context) (graph.Document, error)) *viewModel {
	m := &viewModel{ctx: ctx, opts: opts, fetch: fetch, doc: doc}
	m.rebuild(cells.NewGrid(80-panelWidth, 24-chromeRows))
	return m
}

// rebuild creates an engine sized to g and installs the current document.
// The transform and selection survive; hover does not. An in-flight
// reload is re-ticketed.
func (m *viewModel) rebuild(g cells.Grid) {
	m.grid = g
	opts := m.opts
	opts.Width, opts.Height = g.Size()
	opts.Panel = engine.PanelFuncs{
		Changed: func(label string, neighbors []string) {
			m.cardLabel, m.cardNeighbors, m.carded = label, neighbors, true
		},
		Cleared: func() {
			m.cardLabel, m.cardNeighbors, m.carded = "", nil, false
		},
	}

	prev := m.engine
	m.engine = engine.New(opts)
	if err := m.engine.Load(m.doc); err != nil {
		m.status = err.Error()
	}
	if prev != nil {
		m.engine.SetTransform(prev.Transform())
		if sel := prev.State().Selected; sel != "" {
			_ = m.engine.Select(sel)
		}
	}
	if m.loading {
		m.ticket = m.engine.BeginLoad()
	}
}

func (m *viewModel) Init() tea.Cmd {
	return m.wake()
}

// wake starts the frame scheduler if it is not running.
func (m *viewModel) wake() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	m.lastTick = time.Now()
	return scheduleTick()
}

func scheduleTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cols := max(msg.Width-panelWidth, 1)
		rows := max(msg.Height-chromeRows, 1)
		if cols != m.grid.Cols || rows != m.grid.Rows {
			m.rebuild(cells.NewGrid(cols, rows))
		}
		return m, m.wake()

	case tickMsg:
		now := time.Time(msg)
		m.engine.Tick(now.Sub(m.lastTick))
		m.lastTick = now
		if m.engine.Settled() && !m.engine.Dragging() {
			m.ticking = false
			return m, nil
		}
		return m, scheduleTick()

	case loadedMsg:
		return m, m.completeLoad(msg)

	case tea.MouseMsg:
		m.mouse(msg)
		return m, m.wake()

	case tea.KeyMsg:
		return m, m.key(msg)
	}
	return m, nil
}

// point returns the screen point at the center of a terminal cell. The
// canvas starts below the status bar.
func (m *viewModel) point(x, y int) geom.Point {
	return m.grid.Center(x, y-1)
}

func (m *viewModel) onCanvas(x, y int) bool {
	return x >= 0 && x < m.grid.Cols && y >= 1 && y <= m.grid.Rows
}

func (m *viewModel) mouse(msg tea.MouseMsg) {
	p := m.point(msg.X, msg.Y)
	if !m.onCanvas(msg.X, msg.Y) && !m.engine.Dragging() {
		m.engine.PointerLeave()
		if msg.Action == tea.MouseActionRelease {
			m.engine.PointerUp(p)
		}
		return
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.engine.Wheel(p, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.engine.Wheel(p, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.engine.PointerDown(p)
	case msg.Action == tea.MouseActionRelease:
		m.engine.PointerUp(p)
	case msg.Action == tea.MouseActionMotion:
		m.engine.PointerMove(p)
	}
}

func (m *viewModel) key(msg tea.KeyMsg) tea.Cmd {
	w, h := m.grid.Size()
	center := geom.Point{X: w / 2, Y: h / 2}
	dx, dy := panStep*m.grid.CellW, panStep*m.grid.CellH

	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "esc":
		m.engine.ClearSelection()
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "left":
		m.engine.Pan(dx, 0)
	case "right":
		m.engine.Pan(-dx, 0)
	case "up":
		m.engine.Pan(0, dy)
	case "down":
		m.engine.Pan(0, -dy)
	case "+", "=":
		m.engine.Wheel(center, -1)
	case "-":
		m.engine.Wheel(center, 1)
	case "0":
		m.engine.ResetView()
	case "l":
		m.allLabels = !m.allLabels
	case "r":
		return m.reload()
	default:
		return nil
	}
	return m.wake()
}

// cycle selects the node dir steps away from the current target in node
// table order.
func (m *viewModel) cycle(dir int) {
	net := m.engine.Network()
	if net == nil || net.Len() == 0 {
		return
	}
	i := -1
	if t := m.engine.Target(); t != "" {
		i, _ = net.Index(t)
	}
	switch {
	case i < 0 && dir < 0:
		i = net.Len() - 1
	case i < 0:
		i = 0
	default:
		i = (i + dir + net.Len()) % net.Len()
	}
	_ = m.engine.Select(net.Nodes[i].ID)
}

// reload fetches the network again in the background. Only the most
// recent reload is applied.
func (m *viewModel) reload() tea.Cmd {
	m.seq++
	m.loading = true
	m.status = "reloading..."
	m.ticket = m.engine.BeginLoad()
	seq, ctx, fetch := m.seq, m.ctx, m.fetch
	return func() tea.Msg {
		doc, err := fetch(ctx)
		return loadedMsg{seq: seq, doc: doc, err: err}
	}
}

func (m *viewModel) completeLoad(msg loadedMsg) tea.Cmd {
	if msg.seq != m.seq || !m.loading {
		return nil
	}
	m.loading = false
	if err := m.engine.CompleteLoad(m.ticket, msg.doc, msg.err); err != nil {
		m.status = err.Error()
		return nil
	}
	m.doc = msg.doc
	m.status = "reloaded"
	return m.wake()
}

// =============================================================================
// Rendering
// =============================================================================

func (m *viewModel) View() string {
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n")

	frame := m.engine.Frame()
	var opts []cells.Option
	if m.allLabels {
		opts = append(opts, cells.WithAllLabels())
	}
	canvas := cells.Draw(&frame, m.grid, opts...).Render()

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panel()))
	b.WriteString("\n")
	b.WriteString(viewHelpStyle.Render("click select · drag move/pan · wheel zoom · tab next · 0 reset · l labels · r reload · q quit"))
	return b.String()
}

func (m *viewModel) statusBar() string {
	name := m.doc.Name
	if name == "" {
		name = "network"
	}
	parts := []string{StyleTitle.Render(name)}
	if net := m.engine.Network(); net != nil {
		parts = append(parts, viewStatusStyle.Render(fmt.Sprintf("%d nodes · %d edges", net.Len(), len(net.Edges))))
	}
	parts = append(parts, viewStatusStyle.Render(fmt.Sprintf("zoom %.2f", m.engine.Transform().K)))
	if m.engine.Settled() {
		parts = append(parts, styleSettled.Render(iconSettled))
	} else {
		parts = append(parts, styleMoving.Render(iconMoving))
	}
	if m.status != "" {
		parts = append(parts, viewErrorStyle.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// panel renders the node card, or a hint when nothing is highlighted.
func (m *viewModel) panel() string {
	inner := panelWidth - 4
	if !m.carded {
		return viewPanelStyle.Width(inner).Render(StyleDim.Render("Click a node to see its neighbors."))
	}
	card := engine.Card{Label: m.cardLabel, Neighbors: m.cardNeighbors}

	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(truncate(card.Label, inner)))
	b.WriteString("\n")
	b.WriteString(cardHeaderStyle.Render(card.Header()))
	lines := card.Lines()
	limit := max(m.grid.Rows-4, 1)
	for i, l := range lines {
		if i == limit && len(lines) > limit {
			b.WriteString("\n" + StyleDim.Render(fmt.Sprintf("… %d more", len(lines)-limit)))
			break
		}
		b.WriteString("\n" + StyleValue.Render(truncate(l, inner)))
	}
	return viewPanelStyle.Width(inner).Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
