package graph

import (
	"testing"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

func TestAnalyze_Degrees(t *testing.T) {
	nodes := nodesFromPaths("/", "/notes/", "/notes/heatwaves.html")
	edges := []model.Edge{
		{Source: "notes-heatwaves", Target: "notes"},
		{Source: "home", Target: "notes"},
		{Source: "notes", Target: "home"},
		{Source: "ghost", Target: "notes"}, // dangling, skipped
	}

	stats := Analyze(nodes, edges)

	if got := stats.InDegree["notes"]; got != 2 {
		t.Errorf("notes in-degree = %d, want 2", got)
	}
	if got := stats.OutDegree["notes"]; got != 1 {
		t.Errorf("notes out-degree = %d, want 1", got)
	}
	if got := stats.Degree("notes"); got != 3 {
		t.Errorf("notes total degree = %d, want 3", got)
	}
	if got := stats.Degree("notes-heatwaves"); got != 1 {
		t.Errorf("heatwaves degree = %d, want 1", got)
	}
}

func TestAnalyze_PageRankFavorsHub(t *testing.T) {
	nodes := nodesFromPaths("/", "/notes/", "/notes/a.html", "/notes/b.html")
	edges := []model.Edge{
		{Source: "notes-a", Target: "notes"},
		{Source: "notes-b", Target: "notes"},
		{Source: "home", Target: "notes"},
	}

	stats := Analyze(nodes, edges)
	if stats.PageRank["notes"] <= stats.PageRank["notes-a"] {
		t.Errorf("hub node should outrank a leaf: notes=%f a=%f",
			stats.PageRank["notes"], stats.PageRank["notes-a"])
	}
}

func TestAnalyze_Empty(t *testing.T) {
	stats := Analyze(nil, nil)
	if len(stats.PageRank) != 0 {
		t.Error("empty input should produce empty stats without panicking")
	}
}
