// Package layout computes static positions for graph nodes with a
// fixed-iteration force simulation: spring forces along edges, pairwise
// repulsion, a weak centering pull, and collision separation. The
// simulation is synchronous and deterministic, a pure function of
// (nodes, edges, viewport, params), so layouts are reproducible and
// directly testable. There is no animated real-time loop.
package layout

import (
	"hash/fnv"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// Node radii in display units. The current-page node ignores the
// degree-based scale and always renders larger.
const (
	MinRadius     = 6.0
	MaxRadius     = 16.0
	CurrentRadius = 18.0
)

// Params tunes the simulation.
type Params struct {
	Iterations    int     // fixed simulation step count
	SpringLength  float64 // rest length of edge springs
	SpringK       float64 // spring stiffness
	Repulsion     float64 // pairwise inverse-square repulsion strength
	CenterPull    float64 // weak pull toward the viewport center
	CollidePasses int     // post-step overlap separation passes
	Damping       float64 // per-step displacement damping
	Margin        float64 // clamp margin inside the viewport
}

// MiniParams returns the preset for the compact always-visible view.
func MiniParams() Params {
	return Params{
		Iterations:    150,
		SpringLength:  60,
		SpringK:       0.02,
		Repulsion:     900,
		CenterPull:    0.012,
		CollidePasses: 4,
		Damping:       0.85,
		Margin:        10,
	}
}

// FullParams returns the preset for the full interactive view.
func FullParams() Params {
	return Params{
		Iterations:    200,
		SpringLength:  110,
		SpringK:       0.02,
		Repulsion:     2200,
		CenterPull:    0.008,
		CollidePasses: 4,
		Damping:       0.85,
		Margin:        24,
	}
}

// PlacedNode is a node with its computed position and display radius.
// Frames embed shallow copies of the model nodes, so two concurrent
// frames (mini and full) never share mutable state.
type PlacedNode struct {
	model.Node
	Pos    r2.Vec
	Radius float64
	Pinned bool
}

// Frame is one ephemeral layout: per-render positions over a viewport.
// It is discarded and recomputed on every re-render.
type Frame struct {
	Nodes         []PlacedNode
	Width, Height float64
	CurrentID     string
}

// NewFrame seeds a frame for the given nodes. degrees supplies each node's
// connection degree for radius scaling (nil means minimum radius). The
// node with currentID is pinned at the viewport center; initial positions
// for the rest derive from an FNV hash of the node ID, which keeps the
// whole pipeline deterministic without a random source.
func NewFrame(nodes []model.Node, degrees map[string]int, currentID string, width, height float64) *Frame {
	f := &Frame{
		Nodes:     make([]PlacedNode, len(nodes)),
		Width:     width,
		Height:    height,
		CurrentID: currentID,
	}
	center := r2.Vec{X: width / 2, Y: height / 2}
	ring := math.Min(width, height) * 0.35

	maxDegree := 1
	for _, d := range degrees {
		if d > maxDegree {
			maxDegree = d
		}
	}

	for i, n := range nodes {
		pn := PlacedNode{Node: n, Radius: radiusFor(degrees[n.ID], maxDegree)}
		if n.ID == currentID {
			pn.Pinned = true
			pn.Pos = center
			pn.Radius = CurrentRadius
		} else {
			h := fnv.New32a()
			h.Write([]byte(n.ID))
			sum := h.Sum32()
			angle := float64(sum%3600) / 3600 * 2 * math.Pi
			dist := ring * (0.4 + 0.6*float64((sum/3600)%1000)/1000)
			pn.Pos = r2.Vec{
				X: center.X + dist*math.Cos(angle),
				Y: center.Y + dist*math.Sin(angle),
			}
		}
		f.Nodes[i] = pn
	}
	return f
}

// radiusFor scales a node's radius with its connection degree.
func radiusFor(degree, maxDegree int) float64 {
	if maxDegree <= 0 || degree <= 0 {
		return MinRadius
	}
	r := MinRadius + (MaxRadius-MinRadius)*float64(degree)/float64(maxDegree)
	return math.Min(r, MaxRadius)
}

// Run executes the simulation over the frame. Edges referencing nodes
// outside the frame are skipped. After the fixed iteration count, all
// unpinned positions are clamped into the viewport minus the margin; the
// pinned current-page node stays exactly at the viewport center.
func Run(f *Frame, edges []model.Edge, p Params) {
	if len(f.Nodes) == 0 {
		return
	}
	center := r2.Vec{X: f.Width / 2, Y: f.Height / 2}

	idx := make(map[string]int, len(f.Nodes))
	for i, n := range f.Nodes {
		idx[n.ID] = i
	}
	type link struct{ a, b int }
	var links []link
	for _, e := range edges {
		a, okA := idx[e.Source]
		b, okB := idx[e.Target]
		if !okA || !okB || a == b {
			continue
		}
		links = append(links, link{a, b})
	}

	forces := make([]r2.Vec, len(f.Nodes))
	for it := 0; it < p.Iterations; it++ {
		for i := range forces {
			forces[i] = r2.Vec{}
		}

		// Weak centering pull.
		for i := range f.Nodes {
			d := r2.Sub(center, f.Nodes[i].Pos)
			forces[i] = r2.Add(forces[i], r2.Scale(p.CenterPull, d))
		}

		// Pairwise inverse-square repulsion.
		for i := 0; i < len(f.Nodes); i++ {
			for j := i + 1; j < len(f.Nodes); j++ {
				d := r2.Sub(f.Nodes[i].Pos, f.Nodes[j].Pos)
				d2 := d.X*d.X + d.Y*d.Y
				if d2 < 1e-4 {
					// Coincident nodes: nudge apart along a fixed axis so
					// the simulation stays deterministic.
					d = r2.Vec{X: 0.1, Y: 0.1}
					d2 = 0.02
				}
				push := r2.Scale(p.Repulsion/d2, r2.Scale(1/math.Sqrt(d2), d))
				forces[i] = r2.Add(forces[i], push)
				forces[j] = r2.Sub(forces[j], push)
			}
		}

		// Spring forces along edges.
		for _, l := range links {
			d := r2.Sub(f.Nodes[l.b].Pos, f.Nodes[l.a].Pos)
			dist := math.Hypot(d.X, d.Y)
			if dist < 1e-6 {
				continue
			}
			stretch := (dist - p.SpringLength) * p.SpringK
			pull := r2.Scale(stretch/dist, d)
			forces[l.a] = r2.Add(forces[l.a], pull)
			forces[l.b] = r2.Sub(forces[l.b], pull)
		}

		for i := range f.Nodes {
			if f.Nodes[i].Pinned {
				f.Nodes[i].Pos = center
				continue
			}
			f.Nodes[i].Pos = r2.Add(f.Nodes[i].Pos, r2.Scale(p.Damping, forces[i]))
		}
	}

	separateOverlaps(f, p.CollidePasses)
	clamp(f, p.Margin)
}

// separateOverlaps pushes overlapping node pairs apart. Pinned nodes do
// not move; their counterpart takes the full displacement.
func separateOverlaps(f *Frame, passes int) {
	for pass := 0; pass < passes; pass++ {
		moved := false
		for i := 0; i < len(f.Nodes); i++ {
			for j := i + 1; j < len(f.Nodes); j++ {
				a, b := &f.Nodes[i], &f.Nodes[j]
				d := r2.Sub(b.Pos, a.Pos)
				dist := math.Hypot(d.X, d.Y)
				min := a.Radius + b.Radius + 2
				if dist >= min {
					continue
				}
				moved = true
				if dist < 1e-6 {
					d = r2.Vec{X: 1, Y: 0}
					dist = 1
				}
				shift := r2.Scale((min-dist)/dist, d)
				switch {
				case a.Pinned:
					b.Pos = r2.Add(b.Pos, shift)
				case b.Pinned:
					a.Pos = r2.Sub(a.Pos, shift)
				default:
					half := r2.Scale(0.5, shift)
					a.Pos = r2.Sub(a.Pos, half)
					b.Pos = r2.Add(b.Pos, half)
				}
			}
		}
		if !moved {
			break
		}
	}
}

// clamp keeps unpinned nodes inside the viewport minus the margin.
func clamp(f *Frame, margin float64) {
	for i := range f.Nodes {
		n := &f.Nodes[i]
		if n.Pinned {
			continue
		}
		lo := margin + n.Radius
		n.Pos.X = clampFloat(n.Pos.X, lo, f.Width-margin-n.Radius)
		n.Pos.Y = clampFloat(n.Pos.Y, lo, f.Height-margin-n.Radius)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// FitTransform computes the zoom/pan transform that fits the frame's node
// bounding box into the viewport with the given margin, centered. Scale
// is capped at 1 so sparse graphs are not blown up.
func FitTransform(f *Frame, margin float64) (scale, offsetX, offsetY float64) {
	if len(f.Nodes) == 0 {
		return 1, 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range f.Nodes {
		minX = math.Min(minX, n.Pos.X-n.Radius)
		minY = math.Min(minY, n.Pos.Y-n.Radius)
		maxX = math.Max(maxX, n.Pos.X+n.Radius)
		maxY = math.Max(maxY, n.Pos.Y+n.Radius)
	}
	w := maxX - minX
	h := maxY - minY
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	scale = math.Min((f.Width-2*margin)/w, (f.Height-2*margin)/h)
	scale = math.Min(scale, 1)
	offsetX = f.Width/2 - scale*(minX+w/2)
	offsetY = f.Height/2 - scale*(minY+h/2)
	return scale, offsetX, offsetY
}
