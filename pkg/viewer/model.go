// Package viewer is the interactive terminal view of the site link graph:
// a force-laid-out canvas with category filters, substring search, a
// focus mode for the current page's neighborhood, and keyboard traversal
// over the visible nodes.
package viewer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/layout"
	"github.com/vanderheijden86/sitegraph/pkg/model"
	"github.com/vanderheijden86/sitegraph/pkg/preview"
	"github.com/vanderheijden86/sitegraph/pkg/recent"
)

const (
	minZoom = 0.25
	maxZoom = 4.0

	// Terminal cells are about twice as tall as wide; layout space is
	// scaled accordingly when frames are built.
	cellAspect = 2.0
)

// Options configures a viewer session.
type Options struct {
	Store       *graph.Store
	Stats       *graph.Stats
	BaseURL     string
	CurrentPath string
	Previews    preview.Source
	RecentFile  string
	Theme       Theme
}

// Model is the bubbletea model for the graph viewer.
type Model struct {
	store    *graph.Store
	stats    *graph.Stats
	theme    Theme
	baseURL  string
	previews preview.Source

	recentFile string
	recentLog  *recent.Log

	width  int
	height int

	currentID string

	activeCats map[model.Category]bool
	searchMode bool
	search     textinput.Model
	query      string
	focusMode  bool

	visible  []model.Node
	selected int

	frame     *layout.Frame
	miniFrame *layout.Frame
	miniView  bool
	zoom      float64
	panX      float64
	panY      float64

	showHelp bool
	helpText string

	meta     preview.Metadata
	haveMeta bool

	status string
}

// New builds a viewer model over an immutable graph store.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "search pages"
	ti.CharLimit = 80
	ti.Width = 32

	cats := make(map[model.Category]bool, len(model.AllCategories))
	for _, c := range model.AllCategories {
		cats[c] = true
	}

	log := recent.Load(opts.RecentFile)

	m := Model{
		store:      opts.Store,
		stats:      opts.Stats,
		theme:      opts.Theme,
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		previews:   opts.Previews,
		recentFile: opts.RecentFile,
		recentLog:  log,
		activeCats: cats,
		search:     ti,
		zoom:       1.0,
	}
	if current, ok := graph.ResolveCurrent(opts.Store.Nodes(), opts.CurrentPath); ok {
		m.currentID = current.ID
	}
	m.rebuildVisible(true)
	return m
}

// Run starts the viewer in the alternate screen until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.fetchPreviewCmd()
}

// --- messages ---------------------------------------------------------------

type previewMsg struct {
	path string
	meta preview.Metadata
}

type statusMsg string

// --- update -----------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildFrames()
		return m, nil

	case previewMsg:
		// Stale responses lose: only the preview for the node that is
		// still selected is applied.
		if n, ok := m.selectedNode(); ok && n.Path == msg.path {
			m.meta = msg.meta
			m.haveMeta = true
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		return m.handleSearchKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searchMode = true
		m.search.SetValue(m.query)
		m.search.Focus()
		return m, textinput.Blink

	case "?":
		m.showHelp = true
		return m, nil

	case "j", "down":
		return m.moveSelection(1)
	case "k", "up":
		return m.moveSelection(-1)

	case "g":
		for i, n := range m.visible {
			if n.ID == m.currentID {
				m.selected = i
				break
			}
		}
		return m, m.fetchPreviewCmd()

	case "f":
		m.focusMode = !m.focusMode
		m.rebuildVisible(false)
		return m, m.fetchPreviewCmd()

	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		cat := model.AllCategories[idx]
		m.activeCats[cat] = !m.activeCats[cat]
		m.rebuildVisible(false)
		return m, m.fetchPreviewCmd()

	case "a":
		// Explicit reset: re-enable every category rather than relying
		// on toggling them back one by one.
		for _, c := range model.AllCategories {
			m.activeCats[c] = true
		}
		m.rebuildVisible(false)
		return m, m.fetchPreviewCmd()

	case "esc":
		if m.query != "" || m.focusMode {
			m.query = ""
			m.focusMode = false
			m.rebuildVisible(false)
			return m, m.fetchPreviewCmd()
		}
		// Nothing left to clear: close the viewer.
		return m, tea.Quit

	case "enter":
		return m.navigate()

	case "y":
		return m, m.copyURLCmd()

	case "m":
		m.miniView = !m.miniView
		return m, nil

	case "+", "=":
		m.zoom = clampZoom(m.zoom * 1.25)
		return m, nil
	case "-":
		m.zoom = clampZoom(m.zoom / 1.25)
		return m, nil
	case "left":
		m.panX += 4
		return m, nil
	case "right":
		m.panX -= 4
		return m, nil
	case "shift+up":
		m.panY += 2
		return m, nil
	case "shift+down":
		m.panY -= 2
		return m, nil
	case "r":
		m.zoom = 1.0
		m.panX = 0
		m.panY = 0
		return m, nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.search.Blur()
		m.query = ""
		m.rebuildVisible(false)
		return m, m.fetchPreviewCmd()
	case "enter":
		m.searchMode = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.query {
		m.query = q
		m.rebuildVisible(false)
	}
	return m, cmd
}

// moveSelection clamps at both ends; traversal does not wrap.
func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	if len(m.visible) == 0 {
		return m, nil
	}
	next := clampInt(m.selected+delta, 0, len(m.visible)-1)
	if next == m.selected {
		return m, nil
	}
	m.selected = next
	m.haveMeta = false
	return m, m.fetchPreviewCmd()
}

// navigate makes the selected node the current page: recenter the layout
// on it and record the visit.
func (m Model) navigate() (tea.Model, tea.Cmd) {
	n, ok := m.selectedNode()
	if !ok {
		return m, nil
	}
	m.currentID = n.ID
	m.recentLog.Touch(n.Path, time.Now())
	if m.recentFile != "" {
		if err := m.recentLog.Save(m.recentFile); err != nil {
			m.status = "visit log: " + err.Error()
		}
	}
	m.rebuildVisible(false)
	return m, tea.Batch(m.fetchPreviewCmd(), func() tea.Msg {
		return statusMsg("centered on " + n.Path)
	})
}

func (m Model) copyURLCmd() tea.Cmd {
	n, ok := m.selectedNode()
	if !ok {
		return nil
	}
	url := m.baseURL + n.Path
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return statusMsg("clipboard: " + err.Error())
		}
		return statusMsg("copied " + url)
	}
}

func (m Model) fetchPreviewCmd() tea.Cmd {
	n, ok := m.selectedNode()
	if !ok || m.previews == nil {
		return nil
	}
	src := m.previews
	path := n.Path
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return previewMsg{path: path, meta: src.PageMetadata(ctx, path)}
	}
}

// --- derived state ----------------------------------------------------------

func (m *Model) selectedNode() (model.Node, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return model.Node{}, false
	}
	return m.visible[m.selected], true
}

// rebuildVisible recomputes the filtered node list and both layout
// frames. Selection follows the previously selected node when it
// survives the filter change.
func (m *Model) rebuildVisible(initial bool) {
	var keepID string
	if n, ok := m.selectedNode(); ok {
		keepID = n.ID
	}
	if initial {
		keepID = m.currentID
	}

	neighborhood := m.neighborhood()
	q := strings.ToLower(m.query)

	m.visible = m.visible[:0]
	for _, n := range m.store.Nodes() {
		if !m.activeCats[n.Category] {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(n.Label), q) &&
			!strings.Contains(strings.ToLower(n.Path), q) &&
			!strings.Contains(strings.ToLower(n.ID), q) {
			continue
		}
		if m.focusMode && !neighborhood[n.ID] {
			continue
		}
		m.visible = append(m.visible, n)
	}
	sort.Slice(m.visible, func(i, j int) bool { return m.visible[i].Path < m.visible[j].Path })

	m.selected = 0
	for i, n := range m.visible {
		if n.ID == keepID {
			m.selected = i
			break
		}
	}
	m.haveMeta = false
	m.rebuildFrames()
}

// neighborhood is the current node plus its direct neighbors in either
// direction.
func (m *Model) neighborhood() map[string]bool {
	if !m.focusMode || m.currentID == "" {
		return nil
	}
	keep := map[string]bool{m.currentID: true}
	for _, e := range m.store.Edges() {
		if e.Source == m.currentID {
			keep[e.Target] = true
		}
		if e.Target == m.currentID {
			keep[e.Source] = true
		}
	}
	return keep
}

// rebuildFrames lays out the visible subgraph. The mini and full frames
// are independent instances so pinning and clamping in one cannot leak
// into the other.
func (m *Model) rebuildFrames() {
	if m.width <= 0 || m.height <= 0 {
		m.frame = nil
		m.miniFrame = nil
		return
	}
	degrees := make(map[string]int, len(m.visible))
	if m.stats != nil {
		for _, n := range m.visible {
			degrees[n.ID] = m.stats.Degree(n.ID)
		}
	}
	edges := m.visibleEdges()

	cw, ch := m.canvasSize()
	w := float64(cw)
	h := float64(ch) * cellAspect

	m.frame = layout.NewFrame(m.visible, degrees, m.currentID, w, h)
	layout.Run(m.frame, edges, layout.FullParams())

	m.miniFrame = layout.NewFrame(m.visible, degrees, m.currentID, w/2, h/2)
	layout.Run(m.miniFrame, edges, layout.MiniParams())
}

// visibleEdges keeps only edges whose both endpoints survived filtering.
func (m *Model) visibleEdges() []model.Edge {
	ids := make(map[string]bool, len(m.visible))
	for _, n := range m.visible {
		ids[n.ID] = true
	}
	var out []model.Edge
	for _, e := range m.store.Edges() {
		if ids[e.Source] && ids[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

func (m Model) canvasSize() (int, int) {
	// Rows reserved for header, filter bar, status bar and preview box.
	const chrome = 9
	w := m.width
	h := m.height - chrome
	if w < 20 {
		w = 20
	}
	if h < 8 {
		h = 8
	}
	return w, h
}

func clampZoom(z float64) float64 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

func (m *Model) renderHelp() string {
	if m.helpText != "" {
		return m.helpText
	}
	const doc = `# Graph Viewer

| Key | Action |
|-----|--------|
| j/k | move selection |
| g | jump to current page |
| enter | center on selection |
| / | search, esc clears |
| 1-4 | toggle nav/notes/work/reading |
| a | show all categories |
| f | focus current neighborhood |
| y | copy page URL |
| m | mini view |
| +/- r | zoom, reset |
| q | quit |
`
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(60))
	if err != nil {
		m.helpText = doc
		return m.helpText
	}
	out, err := r.Render(doc)
	if err != nil {
		m.helpText = doc
	} else {
		m.helpText = out
	}
	return m.helpText
}

var _ tea.Model = Model{}

func (m Model) statusLine() string {
	if m.status != "" {
		return m.status
	}
	return fmt.Sprintf("%d/%d pages shown", len(m.visible), m.store.Len())
}
