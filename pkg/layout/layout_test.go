package layout

import (
	"testing"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

func testNodes() []model.Node {
	return []model.Node{
		model.NewNode("/", "Home"),
		model.NewNode("/notes/", "Notes"),
		model.NewNode("/notes/heatwaves.html", "Heatwaves"),
		model.NewNode("/work/", "Work"),
		model.NewNode("/reading/", "Reading"),
	}
}

func testEdges() []model.Edge {
	return []model.Edge{
		{Source: "notes-heatwaves", Target: "notes"},
		{Source: "home", Target: "notes"},
		{Source: "home", Target: "work"},
		{Source: "home", Target: "reading"},
	}
}

func TestRun_CurrentNodePinnedAtCenter(t *testing.T) {
	const w, h = 800, 600
	f := NewFrame(testNodes(), nil, "notes", w, h)
	Run(f, testEdges(), FullParams())

	for _, n := range f.Nodes {
		if n.ID != "notes" {
			continue
		}
		if !n.Pinned {
			t.Fatal("current node must be pinned")
		}
		if n.Pos.X != w/2 || n.Pos.Y != h/2 {
			t.Errorf("pinned node at (%f, %f), want viewport center (%d, %d)", n.Pos.X, n.Pos.Y, w/2, h/2)
		}
		if n.Radius != CurrentRadius {
			t.Errorf("current node radius = %f, want %f", n.Radius, CurrentRadius)
		}
		return
	}
	t.Fatal("current node missing from frame")
}

func TestRun_Deterministic(t *testing.T) {
	run := func() *Frame {
		f := NewFrame(testNodes(), map[string]int{"notes": 3, "home": 3}, "home", 640, 480)
		Run(f, testEdges(), MiniParams())
		return f
	}
	a, b := run(), run()
	for i := range a.Nodes {
		if a.Nodes[i].Pos != b.Nodes[i].Pos {
			t.Errorf("node %s position differs between identical runs: %v vs %v",
				a.Nodes[i].ID, a.Nodes[i].Pos, b.Nodes[i].Pos)
		}
	}
}

func TestRun_ClampsIntoViewport(t *testing.T) {
	const w, h = 320, 240
	p := MiniParams()
	f := NewFrame(testNodes(), nil, "home", w, h)
	Run(f, testEdges(), p)

	for _, n := range f.Nodes {
		if n.Pinned {
			continue
		}
		if n.Pos.X < p.Margin+n.Radius-1e-9 || n.Pos.X > w-p.Margin-n.Radius+1e-9 {
			t.Errorf("node %s X=%f outside clamp bounds", n.ID, n.Pos.X)
		}
		if n.Pos.Y < p.Margin+n.Radius-1e-9 || n.Pos.Y > h-p.Margin-n.Radius+1e-9 {
			t.Errorf("node %s Y=%f outside clamp bounds", n.ID, n.Pos.Y)
		}
	}
}

func TestRun_DanglingEdgesIgnored(t *testing.T) {
	f := NewFrame(testNodes(), nil, "home", 640, 480)
	edges := append(testEdges(), model.Edge{Source: "ghost", Target: "notes"})
	Run(f, edges, MiniParams()) // must not panic
}

func TestNewFrame_IndependentFrames(t *testing.T) {
	nodes := testNodes()
	mini := NewFrame(nodes, nil, "home", 320, 240)
	full := NewFrame(nodes, nil, "notes", 800, 600)
	Run(mini, testEdges(), MiniParams())

	// Running the mini frame must not disturb the full frame's seed
	// positions or pinning.
	for _, n := range full.Nodes {
		if n.ID == "notes" && !n.Pinned {
			t.Error("full frame lost its pin after mini frame ran")
		}
		if n.ID == "home" && n.Pinned {
			t.Error("full frame inherited the mini frame's pin")
		}
	}
}

func TestRadiusScaling(t *testing.T) {
	degrees := map[string]int{"notes": 10, "notes-heatwaves": 1}
	f := NewFrame(testNodes(), degrees, "home", 640, 480)

	var hub, leaf, zero float64
	for _, n := range f.Nodes {
		switch n.ID {
		case "notes":
			hub = n.Radius
		case "notes-heatwaves":
			leaf = n.Radius
		case "reading":
			zero = n.Radius
		}
	}
	if hub != MaxRadius {
		t.Errorf("max-degree node radius = %f, want %f", hub, MaxRadius)
	}
	if leaf <= MinRadius || leaf >= hub {
		t.Errorf("leaf radius %f should sit between min %f and hub %f", leaf, MinRadius, hub)
	}
	if zero != MinRadius {
		t.Errorf("zero-degree node radius = %f, want %f", zero, MinRadius)
	}
}

func TestFitTransform(t *testing.T) {
	f := NewFrame(testNodes(), nil, "home", 800, 600)
	Run(f, testEdges(), FullParams())

	scale, ox, oy := FitTransform(f, 20)
	if scale <= 0 || scale > 1 {
		t.Errorf("scale %f out of range (0, 1]", scale)
	}
	// Every node must land inside the viewport after the transform.
	for _, n := range f.Nodes {
		x := scale*n.Pos.X + ox
		y := scale*n.Pos.Y + oy
		if x < 0 || x > f.Width || y < 0 || y > f.Height {
			t.Errorf("node %s maps outside viewport: (%f, %f)", n.ID, x, y)
		}
	}
}

func TestFitTransform_Empty(t *testing.T) {
	f := &Frame{Width: 100, Height: 100}
	if scale, _, _ := FitTransform(f, 10); scale != 1 {
		t.Errorf("empty frame scale = %f, want 1", scale)
	}
}
