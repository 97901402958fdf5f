package cli

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kintree/pkg/diagram"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/scene"
)

// tickInterval is the animation step of the terminal viewer.
const tickInterval = 40 * time.Millisecond

// Tree styles
var (
	treeLinkStyle     = lipgloss.NewStyle().Foreground(colorDim)
	treePillStyle     = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("239"))
	treeHighlight     = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("28"))
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	treeHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeModel - Animated, foldable tree
// =============================================================================

type tickMsg time.Time

// TreeModel is the bubbletea model for the terminal viewer. Every toggle
// runs a full render cycle into the scene; the committed frame is then
// replayed with [scene.Frame.At] until the transition completes.
type TreeModel struct {
	ctx     context.Context
	diagram *diagram.Diagram
	scene   *scene.Scene
	frame   scene.Frame
	extent  float64 // layout breadth, mapped onto the terminal height

	started  time.Time
	progress float64
	cursor   int
	status   string
	err      error

	Width, Height int
}

// NewTreeModel creates a viewer for a started diagram whose surface is sc.
// first is the frame committed by the initial render.
func NewTreeModel(ctx context.Context, d *diagram.Diagram, sc *scene.Scene, first scene.Frame, extent float64) TreeModel {
	return TreeModel{
		ctx:     ctx,
		diagram: d,
		scene:   sc,
		frame:   first,
		extent:  extent,
		started: time.Now(),
		cursor:  d.Root().ID,
		Width:   100,
		Height:  30,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m TreeModel) Init() tea.Cmd {
	if m.frame.Duration > 0 {
		return tick()
	}
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.step(-1)
		case "down", "j":
			m.step(1)
		case "left", "h":
			if n, ok := m.diagram.Node(m.cursor); ok && n.Parent != nil {
				m.cursor = n.Parent.ID
			}
		case "right", "l":
			if n, ok := m.diagram.Node(m.cursor); ok {
				if kids := n.Visible(); len(kids) > 0 {
					m.cursor = kids[0].ID
				}
			}
		case "enter", " ":
			return m.toggle()
		}
	case tickMsg:
		return m.advance(time.Time(msg))
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}
	return m, nil
}

// toggle clicks the node under the cursor.
func (m TreeModel) toggle() (tea.Model, tea.Cmd) {
	toggled, err := m.diagram.Toggle(m.ctx, m.cursor)
	if err != nil {
		m.err = err
		return m, nil
	}
	n, _ := m.diagram.Node(m.cursor)
	if !toggled {
		m.status = n.Name() + " has no children"
		return m, nil
	}
	m.frame = m.scene.Commit()
	m.started = time.Now()
	m.progress = 0
	m.status = fmt.Sprintf("%s %s", n.Name(), n.State())
	if m.frame.Duration <= 0 {
		m.progress = 1
		return m, nil
	}
	return m, tick()
}

func (m TreeModel) advance(now time.Time) (tea.Model, tea.Cmd) {
	if m.frame.Duration <= 0 {
		m.progress = 1
		return m, nil
	}
	m.progress = min(float64(now.Sub(m.started))/float64(m.frame.Duration), 1)
	if m.progress < 1 {
		return m, tick()
	}
	return m, nil
}

// step moves the cursor through the visible nodes in top-to-bottom,
// left-to-right order.
func (m *TreeModel) step(delta int) {
	order := m.order()
	for i, id := range order {
		if id == m.cursor {
			j := min(max(i+delta, 0), len(order)-1)
			m.cursor = order[j]
			return
		}
	}
	if len(order) > 0 {
		m.cursor = order[0]
	}
}

func (m TreeModel) order() []int {
	nodes := m.frame.Final().Nodes
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].At, nodes[j].At
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// Cursor returns the ID of the selected node.
func (m TreeModel) Cursor() int { return m.cursor }

// Err returns the last toggle error, if any.
func (m TreeModel) Err() error { return m.err }

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.diagram.Root().Name()))
	b.WriteString("\n")

	rows := max(m.Height-4, 5)
	c := newCanvas(max(m.Width, 20), rows)
	c.draw(m.frame.At(m.progress), m.cursor, m.extent)
	b.WriteString(c.String())

	b.WriteString("\n")
	b.WriteString(treeHelpStyle.Render("↑/↓ move  ←/→ parent/child  ⏎ toggle  q quit"))
	switch {
	case m.err != nil:
		b.WriteString("  " + styleIconError.Render(m.err.Error()))
	case m.status != "":
		b.WriteString("  " + StyleDim.Render(m.status))
	}
	return b.String()
}

// =============================================================================
// Canvas - Character grid for one snapshot
// =============================================================================

type cellStyle uint8

const (
	cellBlank cellStyle = iota
	cellLink
	cellPill
	cellHighlight
	cellSelected
)

type cell struct {
	r     rune
	style cellStyle
}

type canvas struct {
	cols, rows int
	cells      [][]cell
}

func newCanvas(cols, rows int) *canvas {
	cells := make([][]cell, rows)
	for i := range cells {
		cells[i] = make([]cell, cols)
		for j := range cells[i] {
			cells[i][j] = cell{r: ' '}
		}
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

func (c *canvas) set(col, row int, r rune, s cellStyle) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = cell{r: r, style: s}
}

// draw maps screen coordinates onto the grid: the depth axis is scaled so
// the deepest column still fits its label, the breadth axis so extent
// spans every row.
func (c *canvas) draw(s scene.Snapshot, selected int, extent float64) {
	var maxX, widest float64
	for _, n := range s.Nodes {
		maxX = math.Max(maxX, n.At.X)
		widest = math.Max(widest, float64(len([]rune(pillText(n.Pill.Marker, n.Pill.Label)))))
	}
	xs := 0.0
	if maxX > 0 {
		xs = math.Max(float64(c.cols)-widest-1, 1) / maxX
	}
	ys := float64(c.rows-1) / math.Max(extent, 1)
	at := func(p render.Point) (int, int) {
		return int(math.Round(p.X * xs)), int(math.Round(p.Y * ys))
	}

	for _, l := range s.Links {
		steps := 24
		for i := 0; i <= steps; i++ {
			col, row := at(bezier(l.Curve, float64(i)/float64(steps)))
			c.set(col, row, '·', cellLink)
		}
	}

	for _, n := range s.Nodes {
		text := []rune(pillText(n.Pill.Marker, n.Pill.Label))
		if n.Pill.Width > 0 && n.Width < n.Pill.Width {
			text = text[:int(float64(len(text))*n.Width/n.Pill.Width)]
		}
		style := cellPill
		switch {
		case n.ID == selected:
			style = cellSelected
		case n.Pill.Highlight:
			style = cellHighlight
		}
		col, row := at(n.At)
		for i, r := range text {
			c.set(col+i, row, r, style)
		}
	}
}

func pillText(marker, label string) string {
	if marker == "" {
		marker = " "
	}
	return "(" + marker + " " + label + ")"
}

// bezier evaluates the link curve at t, using the same control points as
// [render.Curve.Path].
func bezier(c render.Curve, t float64) render.Point {
	mid := (c.Source.X + c.Target.X) / 2
	p0, p3 := c.Source, c.Target
	p1 := render.Point{X: mid, Y: p0.Y}
	p2 := render.Point{X: mid, Y: p3.Y}
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return render.Point{
		X: a*p0.X + b*p1.X + cc*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + cc*p2.Y + d*p3.Y,
	}
}

func (c *canvas) String() string {
	styles := map[cellStyle]lipgloss.Style{
		cellLink:      treeLinkStyle,
		cellPill:      treePillStyle,
		cellHighlight: treeHighlight,
		cellSelected:  treeSelectedStyle.Inherit(treePillStyle),
	}

	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j := 0; j < len(row); {
			k := j
			var run strings.Builder
			for k < len(row) && row[k].style == row[j].style {
				run.WriteRune(row[k].r)
				k++
			}
			if st, ok := styles[row[j].style]; ok {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			j = k
		}
	}
	return b.String()
}
