// Package render produces static graph snapshots (SVG and PNG) of the
// site link graph, using the same deterministic force layout as the
// interactive views.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/layout"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path        string          // Output path; format inferred from extension when Format empty
	Format      string          // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title       string          // Optional title rendered in summary block
	Preset      string          // Layout preset: "mini" or "full" (default)
	Store       *graph.Store    // Graph to render
	Stats       *graph.Stats    // Degree/PageRank metrics for radius scaling
	CurrentPath string          // Page pinned at center, empty for none
	Recent      map[string]bool // Paths emphasized as recently visited
}

// SaveSnapshot renders a static snapshot of the link graph. The visual
// language stays minimal so the output reads well embedded in docs.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Store == nil || opts.Store.Len() == 0 {
		return fmt.Errorf("no nodes to render")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	scene := buildScene(opts)

	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderSVG(f, scene)
	default:
		return renderPNG(opts.Path, scene)
	}
}

// --- scene computation ------------------------------------------------------

const (
	headerHeight = 96.0
	canvasMargin = 24.0

	miniWidth  = 480
	miniHeight = 360
	fullWidth  = 960
	fullHeight = 640
)

type scene struct {
	Frame   *layout.Frame
	Edges   []model.Edge
	Recent  map[string]bool
	Width   int
	Height  int
	Summary summaryInfo
}

type summaryInfo struct {
	Title     string
	Current   string
	NodeCount int
	EdgeCount int
}

func buildScene(opts SnapshotOptions) scene {
	mini := strings.EqualFold(opts.Preset, "mini")
	w, h := fullWidth, fullHeight
	params := layout.FullParams()
	if mini {
		w, h = miniWidth, miniHeight
		params = layout.MiniParams()
	}

	nodes := opts.Store.Nodes()
	degrees := make(map[string]int, len(nodes))
	if opts.Stats != nil {
		for _, n := range nodes {
			degrees[n.ID] = opts.Stats.Degree(n.ID)
		}
	}

	currentID := ""
	if current, ok := graph.ResolveCurrent(nodes, opts.CurrentPath); ok {
		currentID = current.ID
	}

	graphH := float64(h) - headerHeight
	frame := layout.NewFrame(nodes, degrees, currentID, float64(w), graphH)
	layout.Run(frame, opts.Store.Edges(), params)

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Site Graph"
	}
	return scene{
		Frame:  frame,
		Edges:  opts.Store.Edges(),
		Recent: opts.Recent,
		Width:  w,
		Height: h,
		Summary: summaryInfo{
			Title:     title,
			Current:   opts.CurrentPath,
			NodeCount: len(nodes),
			EdgeCount: len(opts.Store.Edges()),
		},
	}
}

// --- rendering --------------------------------------------------------------

var (
	colorNav      = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorNotes    = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorWork     = color.RGBA{0xff, 0xf3, 0xe0, 0xff}
	colorReading  = color.RGBA{0xbb, 0xde, 0xfb, 0xff}
	colorCurrent  = color.RGBA{0xff, 0xab, 0x40, 0xff}
	colorRecent   = color.RGBA{0xce, 0x93, 0xd8, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge     = color.RGBA{0x9e, 0xa7, 0xc4, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
)

func categoryColor(c model.Category) color.RGBA {
	switch c {
	case model.CategoryNotes:
		return colorNotes
	case model.CategoryWork:
		return colorWork
	case model.CategoryReading:
		return colorReading
	default:
		return colorNav
	}
}

// nodeColor applies the emphasis order: current wins over recent, recent
// wins over category.
func nodeColor(n layout.PlacedNode, currentID string, recent map[string]bool) color.RGBA {
	if n.ID == currentID {
		return colorCurrent
	}
	if recent[n.Path] {
		return colorRecent
	}
	return categoryColor(n.Category)
}

func renderPNG(path string, sc scene) error {
	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(12, 12, float64(sc.Width)-24, headerHeight-20, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(sc.Summary.Title, 28, 36, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d  edges: %d", sc.Summary.NodeCount, sc.Summary.EdgeCount), 28, 56, 0, 0.5)
	if sc.Summary.Current != "" {
		dc.DrawStringAnchored("current: "+sc.Summary.Current, 28, 76, 0, 0.5)
	}

	drawLegendPNG(dc, sc.Width)

	pos := placedByID(sc.Frame)
	dc.SetColor(colorEdge)
	dc.SetLineWidth(1.5)
	for _, e := range sc.Edges {
		from, ok1 := pos[e.Source]
		to, ok2 := pos[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		dc.DrawLine(from.Pos.X, from.Pos.Y+headerHeight, to.Pos.X, to.Pos.Y+headerHeight)
		dc.Stroke()
	}

	for _, n := range sc.Frame.Nodes {
		y := n.Pos.Y + headerHeight
		dc.SetColor(nodeColor(n, sc.Frame.CurrentID, sc.Recent))
		dc.DrawCircle(n.Pos.X, y, n.Radius)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.2)
		dc.DrawCircle(n.Pos.X, y, n.Radius)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(truncate(n.Label, 24), n.Pos.X, y+n.Radius+10, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}

func renderSVG(w io.Writer, sc scene) error {
	canvas := svg.New(w)
	canvas.Start(sc.Width, sc.Height)
	canvas.Rect(0, 0, sc.Width, sc.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(12, 12, sc.Width-24, int(headerHeight-20), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	canvas.Text(28, 36, sc.Summary.Title, fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(28, 56, fmt.Sprintf("nodes: %d  edges: %d", sc.Summary.NodeCount, sc.Summary.EdgeCount),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	if sc.Summary.Current != "" {
		canvas.Text(28, 76, "current: "+sc.Summary.Current,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
	drawLegendSVG(canvas, sc.Width)

	pos := placedByID(sc.Frame)
	for _, e := range sc.Edges {
		from, ok1 := pos[e.Source]
		to, ok2 := pos[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		canvas.Line(int(from.Pos.X), int(from.Pos.Y+headerHeight), int(to.Pos.X), int(to.Pos.Y+headerHeight),
			fmt.Sprintf("stroke:%s;stroke-width:1.5", css(colorEdge)))
	}

	for _, n := range sc.Frame.Nodes {
		y := int(n.Pos.Y + headerHeight)
		canvas.Circle(int(n.Pos.X), y, int(n.Radius),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(nodeColor(n, sc.Frame.CurrentID, sc.Recent)), css(colorStroke)))
		canvas.Text(int(n.Pos.X), y+int(n.Radius)+12, truncate(n.Label, 24),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

var legendEntries = []struct {
	c     color.RGBA
	label string
}{
	{colorNav, "Nav"},
	{colorNotes, "Notes"},
	{colorWork, "Work"},
	{colorReading, "Reading"},
}

func drawLegendPNG(dc *gg.Context, width int) {
	x := float64(width - 120)
	y := 28.0
	for _, e := range legendEntries {
		dc.SetColor(e.c)
		dc.DrawRoundedRectangle(x, y-8, 12, 12, 3)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(x, y-8, 12, 12, 3)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(e.label, x+18, y-2, 0, 0.5)
		y += 16
	}
}

func drawLegendSVG(canvas *svg.SVG, width int) {
	x := width - 120
	y := 28
	for _, e := range legendEntries {
		canvas.Roundrect(x, y-8, 12, 12, 3, 3, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(e.c), css(colorStroke)))
		canvas.Text(x+18, y+2, e.label, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
		y += 16
	}
}

// --- helpers ----------------------------------------------------------------

func placedByID(f *layout.Frame) map[string]layout.PlacedNode {
	m := make(map[string]layout.PlacedNode, len(f.Nodes))
	for _, n := range f.Nodes {
		m[n.ID] = n
	}
	return m
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
