// Package cells draws a [scene.Frame] onto a grid of terminal cells.
//
// A [Grid] maps the frame's screen space onto Cols x Rows cells, each
// covering CellW x CellH screen units. The same grid converts mouse cell
// positions back to screen points, so a terminal host can feed pointer
// events straight into the engine.
//
// Each cell holds a rune and a style key; [Canvas.Render] merges runs of
// equal style into single lipgloss Render calls and [Canvas.Plain] drops
// styling altogether.
package cells

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/scene"
)

// Default cell size in screen units. Terminal cells are about twice as tall
// as wide.
const (
	DefaultCellW = 8.0
	DefaultCellH = 16.0
)

// Glyphs.
const (
	NodeGlyph = '●'
	Blank     = ' '
)

// Grid is the mapping between cells and screen coordinates.
type Grid struct {
	Cols, Rows   int
	CellW, CellH float64
}

// NewGrid returns a grid of cols x rows default-sized cells.
func NewGrid(cols, rows int) Grid {
	return Grid{Cols: max(cols, 0), Rows: max(rows, 0), CellW: DefaultCellW, CellH: DefaultCellH}
}

// Size returns the screen size the grid covers.
func (g Grid) Size() (w, h float64) {
	return float64(g.Cols) * g.CellW, float64(g.Rows) * g.CellH
}

// Cell returns the cell containing screen point p. The result may lie
// outside the grid.
func (g Grid) Cell(p geom.Point) (col, row int) {
	return int(math.Floor(p.X / g.CellW)), int(math.Floor(p.Y / g.CellH))
}

// Center returns the screen point at the center of a cell.
func (g Grid) Center(col, row int) geom.Point {
	return geom.Point{X: (float64(col) + 0.5) * g.CellW, Y: (float64(row) + 0.5) * g.CellH}
}

// StyleKey indexes a canvas style.
type StyleKey int

// Fixed style keys. Node colors get keys allocated after these.
const (
	StyleDefault StyleKey = iota
	StyleEdge
	StyleEdgeActive
	StyleEdgeInactive
	StyleNode
	StyleNodeInactive
	StyleLabel
	StyleLabelActive
	styleFixed
)

// Theme holds the fixed styles.
type Theme map[StyleKey]lipgloss.Style

// DefaultTheme returns the built-in styles.
func DefaultTheme() Theme {
	return Theme{
		StyleEdge:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		StyleEdgeActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		StyleEdgeInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		StyleNode:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		StyleNodeInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
		StyleLabel:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		StyleLabelActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
	}
}

// Option configures drawing.
type Option func(*drawer)

type drawer struct {
	theme     Theme
	allLabels bool
}

// WithTheme replaces the fixed styles.
func WithTheme(t Theme) Option { return func(d *drawer) { d.theme = t } }

// WithAllLabels draws every node label. By default only the labels of
// highlighted nodes are drawn, or all labels when nothing is highlighted.
func WithAllLabels() Option { return func(d *drawer) { d.allLabels = true } }

type cell struct {
	ch    rune
	style StyleKey
}

// Canvas is a drawn grid.
type Canvas struct {
	Grid   Grid
	cells  [][]cell // [row][col]
	styles map[StyleKey]lipgloss.Style
}

// Draw renders f onto a new canvas. The frame's transform is applied.
func Draw(f *scene.Frame, g Grid, opts ...Option) *Canvas {
	d := drawer{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(&d)
	}

	c := newCanvas(g, d.theme)
	t := f.Transform

	for _, pass := range []scene.Class{scene.ClassInactive, scene.ClassNone, scene.ClassNeighbor, scene.ClassActive} {
		for _, e := range f.Edges {
			if e.Class != pass {
				continue
			}
			a := t.Apply(geom.Point{X: e.X1, Y: e.Y1})
			b := t.Apply(geom.Point{X: e.X2, Y: e.Y2})
			c.line(a, b, edgeStyle(e.Class))
		}
	}

	nodeStyles := make(map[string]StyleKey)
	for _, n := range f.Nodes {
		col, row := g.Cell(t.Apply(n.Center()))
		c.set(col, row, NodeGlyph, c.nodeStyle(n, nodeStyles))
	}

	highlighted := f.Target != ""
	for _, n := range f.Nodes {
		if !d.allLabels && highlighted && n.Class != scene.ClassActive && n.Class != scene.ClassNeighbor {
			continue
		}
		col, row := g.Cell(t.Apply(n.Center()))
		style := StyleLabel
		if n.Class == scene.ClassActive {
			style = StyleLabelActive
		}
		c.label(col+2, row, n.Label, style)
	}
	return c
}

func newCanvas(g Grid, theme Theme) *Canvas {
	c := &Canvas{Grid: g, cells: make([][]cell, g.Rows), styles: make(map[StyleKey]lipgloss.Style, len(theme))}
	for k, s := range theme {
		c.styles[k] = s
	}
	for r := range c.cells {
		row := make([]cell, g.Cols)
		for i := range row {
			row[i] = cell{ch: Blank}
		}
		c.cells[r] = row
	}
	return c
}

func edgeStyle(c scene.Class) StyleKey {
	switch c {
	case scene.ClassActive:
		return StyleEdgeActive
	case scene.ClassInactive:
		return StyleEdgeInactive
	default:
		return StyleEdge
	}
}

// nodeStyle returns the style of a node, allocating a key per distinct
// color. Inactive nodes lose their color.
func (c *Canvas) nodeStyle(n scene.NodeView, byColor map[string]StyleKey) StyleKey {
	if n.Class == scene.ClassInactive {
		return StyleNodeInactive
	}
	if n.Color == "" && n.Class != scene.ClassActive {
		return StyleNode
	}
	key := n.Color + "/" + n.Class.String()
	if k, ok := byColor[key]; ok {
		return k
	}
	s := c.styles[StyleNode]
	if n.Color != "" {
		s = s.Foreground(lipgloss.Color(n.Color))
	}
	if n.Class == scene.ClassActive {
		s = s.Bold(true).Reverse(true)
	}
	k := styleFixed + StyleKey(len(byColor))
	byColor[key] = k
	c.styles[k] = s
	return k
}

func (c *Canvas) inBounds(col, row int) bool {
	return col >= 0 && col < c.Grid.Cols && row >= 0 && row < c.Grid.Rows
}

func (c *Canvas) set(col, row int, ch rune, style StyleKey) {
	if c.inBounds(col, row) {
		c.cells[row][col] = cell{ch: ch, style: style}
	}
}

// label writes s from (col, row) without covering nodes.
func (c *Canvas) label(col, row int, s string, style StyleKey) {
	for i, ch := range []rune(s) {
		x := col + i
		if !c.inBounds(x, row) {
			continue
		}
		if c.cells[row][x].ch == NodeGlyph {
			continue
		}
		c.cells[row][x] = cell{ch: ch, style: style}
	}
}

// line draws a segment between screen points a and b with Bresenham's
// algorithm, picking a glyph from the overall slope.
func (c *Canvas) line(a, b geom.Point, style StyleKey) {
	x0, y0 := c.Grid.Cell(a)
	x1, y1 := c.Grid.Cell(b)
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
		(x0 >= c.Grid.Cols && x1 >= c.Grid.Cols) || (y0 >= c.Grid.Rows && y1 >= c.Grid.Rows) {
		return
	}
	ch := slopeGlyph(x1-x0, y1-y0)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	errv := dx + dy
	for {
		c.set(x0, y0, ch, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errv
		if e2 >= dy {
			errv += dy
			x0 += sx
		}
		if e2 <= dx {
			errv += dx
			y0 += sy
		}
	}
}

func slopeGlyph(dx, dy int) rune {
	adx, ady := abs(dx), abs(dy)
	switch {
	case adx == 0 && ady == 0:
		return '·'
	case ady*2 < adx:
		return '─'
	case adx*2 < ady:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Rune returns the glyph at a cell, or Blank outside the grid.
func (c *Canvas) Rune(col, row int) rune {
	if !c.inBounds(col, row) {
		return Blank
	}
	return c.cells[row][col].ch
}

// Plain returns the canvas as unstyled text, rows joined by newlines.
func (c *Canvas) Plain() string {
	lines := make([]string, len(c.cells))
	for r, row := range c.cells {
		rs := make([]rune, len(row))
		for i, cl := range row {
			rs[i] = cl.ch
		}
		lines[r] = string(rs)
	}
	return strings.Join(lines, "\n")
}

// Render returns the canvas with styles applied. Consecutive cells with the
// same style are rendered as one run.
func (c *Canvas) Render() string {
	if c.Grid.Cols == 0 || c.Grid.Rows == 0 {
		return ""
	}
	lines := make([]string, len(c.cells))
	for r, row := range c.cells {
		var sb strings.Builder
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].style == row[start].style {
				continue
			}
			chunk := make([]rune, i-start)
			for j := start; j < i; j++ {
				chunk[j-start] = row[j].ch
			}
			if s, ok := c.styles[row[start].style]; ok {
				sb.WriteString(s.Render(string(chunk)))
			} else {
				sb.WriteString(string(chunk))
			}
			start = i
		}
		lines[r] = sb.String()
	}
	return strings.Join(lines, "\n")
}
