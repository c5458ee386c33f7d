package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "loading..."
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.theme.HelpOverlay.Render(m.renderHelp()))
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteByte('\n')
	b.WriteString(m.filterLine())
	b.WriteByte('\n')

	frame := m.frame
	if m.miniView {
		frame = m.miniFrame
	}
	cw, ch := m.canvasSize()
	if m.miniView {
		cw, ch = cw/2, ch/2
	}
	b.WriteString(m.renderGraph(frame, cw, ch))
	b.WriteByte('\n')

	b.WriteString(m.previewBox())
	b.WriteByte('\n')
	b.WriteString(m.theme.StatusBar.Render(m.statusLine()))
	return b.String()
}

func (m Model) headerLine() string {
	title := m.theme.Header.Render("site graph")
	counts := m.theme.Muted.Render(fmt.Sprintf("  %d pages, %d links", m.store.Len(), m.store.EdgeCount()))
	mode := ""
	if m.focusMode {
		mode = m.theme.FilterOn.Render("  [focus]")
	}
	if m.miniView {
		mode += m.theme.FilterOn.Render("  [mini]")
	}
	return title + counts + mode
}

func (m Model) filterLine() string {
	var parts []string
	allOn := true
	for _, c := range model.AllCategories {
		if !m.activeCats[c] {
			allOn = false
			break
		}
	}
	if allOn {
		parts = append(parts, m.theme.FilterOn.Render("[a]all"))
	} else {
		parts = append(parts, m.theme.FilterOff.Render("[a]all"))
	}
	for i, c := range model.AllCategories {
		label := fmt.Sprintf("[%d]%s", i+1, c)
		if m.activeCats[c] {
			parts = append(parts, m.theme.FilterOn.Render(label))
		} else {
			parts = append(parts, m.theme.FilterOff.Render(label))
		}
	}
	line := strings.Join(parts, " ")

	if m.searchMode {
		line += "  " + m.theme.SearchPrompt.Render("/") + m.search.View()
	} else if m.query != "" {
		line += "  " + m.theme.SearchPrompt.Render("/"+m.query)
	}
	return line
}

func (m Model) previewBox() string {
	n, ok := m.selectedNode()
	if !ok {
		return m.theme.PreviewBox.Render(m.theme.Muted.Render("nothing selected"))
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}

	var lines []string
	title := n.Label
	if m.haveMeta && m.meta.Title != "" {
		title = m.meta.Title
	}
	lines = append(lines, m.theme.Header.Render(truncateCells(title, width, "…")))

	detail := n.Path + "  (" + string(n.Category) + ")"
	if m.haveMeta && m.meta.ReadingTime != "" {
		detail += "  " + m.meta.ReadingTime
	}
	lines = append(lines, m.theme.Muted.Render(truncateCells(detail, width, "…")))

	switch {
	case m.haveMeta && m.meta.Description != "":
		lines = append(lines, truncateCells(m.meta.Description, width, "…"))
	case m.haveMeta && m.meta.Degraded:
		lines = append(lines, m.theme.Muted.Render("preview unavailable"))
	}

	return m.theme.PreviewBox.Width(width).Render(strings.Join(lines, "\n"))
}
