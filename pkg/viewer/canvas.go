package viewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitegraph/pkg/layout"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// cell is one canvas position. Style is nil for empty cells.
type cell struct {
	ch    rune
	style *lipgloss.Style
}

type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) set(x, y int, ch rune, style *lipgloss.Style) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{ch: ch, style: style}
}

func (c *canvas) writeString(x, y int, s string, style *lipgloss.Style) {
	for _, r := range s {
		c.set(x, y, r, style)
		x++
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.h; y++ {
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle != nil {
				sb.WriteString(runStyle.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.style != runStyle {
				flush()
				runStyle = cl.style
			}
			run.WriteRune(cl.ch)
		}
		flush()
		if y < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// drawLine marks edge cells with a dot, skipping endpoints so node glyphs
// stay visible.
func (c *canvas) drawLine(x0, y0, x1, y1 int, style *lipgloss.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if !(x == x0 && y == y0) && !(x == x1 && y == y1) {
			c.set(x, y, '·', style)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// renderGraph projects the laid-out frame onto a character canvas,
// applying the viewer's zoom and pan on top of a fit transform.
func (m Model) renderGraph(f *layout.Frame, w, h int) string {
	if f == nil || len(f.Nodes) == 0 {
		return m.theme.Muted.Render("no pages match the active filters")
	}

	c := newCanvas(w, h)
	scale, offX, offY := layout.FitTransform(f, 1)

	project := func(px, py float64) (int, int) {
		x := px*scale + offX
		y := (py*scale + offY) / cellAspect
		// zoom about the canvas center, then pan
		cx := (x-float64(w)/2)*m.zoom + float64(w)/2 + m.panX
		cy := (y-float64(h)/2)*m.zoom + float64(h)/2 + m.panY
		return int(cx), int(cy)
	}

	pos := make(map[string][2]int, len(f.Nodes))
	for _, n := range f.Nodes {
		x, y := project(n.Pos.X, n.Pos.Y)
		pos[n.ID] = [2]int{x, y}
	}

	edgeStyle := m.theme.EdgeDot
	for _, e := range m.visibleEdges() {
		from, ok1 := pos[e.Source]
		to, ok2 := pos[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		c.drawLine(from[0], from[1], to[0], to[1], &edgeStyle)
	}

	recentPaths := m.recentLog.PathSet()
	selectedID := ""
	if n, ok := m.selectedNode(); ok {
		selectedID = n.ID
	}

	for _, n := range f.Nodes {
		p := pos[n.ID]
		glyph := nodeGlyph(n, m.currentID, recentPaths)
		color := m.theme.NodeColor(n.Node, m.currentID, recentPaths)
		style := lipgloss.NewStyle().Foreground(color)
		if n.ID == selectedID {
			style = style.Reverse(true).Bold(true)
		}
		c.set(p[0], p[1], glyph, &style)

		label := truncateCells(n.Label, 18, "…")
		labelStyle := m.theme.Muted
		if n.ID == selectedID {
			labelStyle = m.theme.Selected
		}
		c.writeString(p[0]+2, p[1], label, &labelStyle)
	}

	return c.String()
}

func nodeGlyph(n layout.PlacedNode, currentID string, recent map[string]bool) rune {
	switch {
	case n.ID == currentID:
		return '◉'
	case recent[n.Path]:
		return '◎'
	case n.Category == model.CategoryNav:
		return '■'
	default:
		return '●'
	}
}
