// Package testutil provides shared helpers for tests: graph assertions
// and a deterministic site generator.
package testutil

import (
	"testing"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// AssertNodeCount verifies the expected number of nodes.
func AssertNodeCount(t *testing.T, nodes []model.Node, expected int) {
	t.Helper()
	if len(nodes) != expected {
		t.Errorf("expected %d nodes, got %d", expected, len(nodes))
	}
}

// AssertNoDuplicateIDs verifies all node IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, nodes []model.Node) {
	t.Helper()
	seen := make(map[string]bool)
	for _, n := range nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
	}
}

// AssertAllValid verifies all nodes pass validation.
func AssertAllValid(t *testing.T, nodes []model.Node) {
	t.Helper()
	for i, n := range nodes {
		if err := n.Validate(); err != nil {
			t.Errorf("node %d (%s) invalid: %v", i, n.ID, err)
		}
	}
}

// AssertEdgeExists verifies that a specific edge exists.
func AssertEdgeExists(t *testing.T, edges []model.Edge, source, target string) {
	t.Helper()
	for _, e := range edges {
		if e.Source == source && e.Target == target {
			return
		}
	}
	t.Errorf("expected edge %s -> %s not found", source, target)
}

// AssertNoEdge verifies that no edge connects the given ordered pair.
func AssertNoEdge(t *testing.T, edges []model.Edge, source, target string) {
	t.Helper()
	for _, e := range edges {
		if e.Source == source && e.Target == target {
			t.Errorf("unexpected edge %s -> %s", source, target)
			return
		}
	}
}

// AssertNoDanglingEdges verifies every edge endpoint resolves to a node.
func AssertNoDanglingEdges(t *testing.T, nodes []model.Node, edges []model.Edge) {
	t.Helper()
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	for _, e := range edges {
		if !ids[e.Source] || !ids[e.Target] {
			t.Errorf("dangling edge %s -> %s", e.Source, e.Target)
		}
	}
}
