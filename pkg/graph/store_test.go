package graph

import (
	"testing"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

func TestStore_CopiesNotAliased(t *testing.T) {
	nodes := nodesFromPaths("/", "/notes/")
	edges := []model.Edge{{Source: "home", Target: "notes"}}
	s := NewStore(nodes, edges)

	got := s.Nodes()
	got[0].Label = "mutated"
	if again := s.Nodes(); again[0].Label == "mutated" {
		t.Error("Nodes() must return a copy, not the canonical slice")
	}

	ge := s.Edges()
	ge[0].Target = "mutated"
	if again := s.Edges(); again[0].Target == "mutated" {
		t.Error("Edges() must return a copy, not the canonical slice")
	}
}

func TestStore_Counts(t *testing.T) {
	s := NewStore(nodesFromPaths("/", "/notes/"), []model.Edge{{Source: "home", Target: "notes"}})
	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := s.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() = %d, want 1", got)
	}
}

func TestStore_NodeLookup(t *testing.T) {
	s := NewStore(nodesFromPaths("/", "/notes/"), nil)
	if n, ok := s.Node("notes"); !ok || n.Path != "/notes/" {
		t.Errorf("Node lookup failed: %v %v", n, ok)
	}
	if _, ok := s.Node("ghost"); ok {
		t.Error("unknown ID should not resolve")
	}
}

func TestResolveCurrent(t *testing.T) {
	nodes := nodesFromPaths("/", "/notes/", "/notes/heatwaves.html")

	tests := []struct {
		name   string
		page   string
		wantID string
	}{
		{"exact", "/notes/heatwaves.html", "notes-heatwaves"},
		{"index equivalence", "/notes/index.html", "notes"},
		{"missing trailing slash", "/notes", "notes"},
		{"root", "/", "home"},
		{"root index", "/index.html", "home"},
		{"unknown falls back to home", "/nowhere.html", "home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := ResolveCurrent(nodes, tt.page)
			if !ok {
				t.Fatalf("ResolveCurrent(%q) found nothing", tt.page)
			}
			if n.ID != tt.wantID {
				t.Errorf("ResolveCurrent(%q) = %s, want %s", tt.page, n.ID, tt.wantID)
			}
		})
	}
}

func TestResolveCurrent_NoHomepage(t *testing.T) {
	nodes := nodesFromPaths("/notes/")
	if _, ok := ResolveCurrent(nodes, "/nowhere.html"); ok {
		t.Error("no homepage and no match should not resolve")
	}
}
