// Package graph owns the canonical link-graph model: the node set resolved
// by the index loader plus the merged manual and inferred edge sets.
package graph

import (
	"strings"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// Store holds the canonical node and edge sets for the lifetime of a run.
// Consumers always receive copies; the store itself is read-only after
// construction and replaced wholesale when the index is reloaded.
type Store struct {
	nodes []model.Node
	edges []model.Edge
}

// NewStore builds a store from resolved nodes and a merged edge set.
func NewStore(nodes []model.Node, edges []model.Edge) *Store {
	s := &Store{
		nodes: make([]model.Node, len(nodes)),
		edges: make([]model.Edge, len(edges)),
	}
	copy(s.nodes, nodes)
	copy(s.edges, edges)
	return s
}

// Nodes returns a copy of the canonical node set.
func (s *Store) Nodes() []model.Node {
	out := make([]model.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Edges returns a copy of the canonical edge set.
func (s *Store) Edges() []model.Edge {
	out := make([]model.Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Node looks up a node by ID.
func (s *Store) Node(id string) (model.Node, bool) {
	for _, n := range s.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}

// Len returns the node count.
func (s *Store) Len() int {
	return len(s.nodes)
}

// EdgeCount returns the edge count.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// ResolveCurrent finds the node matching the given page path: exact match
// first, then trailing-slash/index equivalence, then the homepage node for
// root-ish paths. Returns false only when no node can stand in.
func ResolveCurrent(nodes []model.Node, pagePath string) (model.Node, bool) {
	p := model.NormalizePath(pagePath)

	for _, n := range nodes {
		if n.Path == p {
			return n, true
		}
	}

	// "/notes" vs "/notes/" and similar index equivalences.
	slashed := p
	if !strings.HasSuffix(slashed, "/") {
		slashed += "/"
	}
	trimmed := strings.TrimSuffix(p, "/")
	for _, n := range nodes {
		if n.Path == slashed || (trimmed != "" && n.Path == trimmed) {
			return n, true
		}
	}

	if p == "/" || p == "" {
		for _, n := range nodes {
			if n.Path == "/" {
				return n, true
			}
		}
	}

	// Fall back to the homepage for anything unresolvable, matching the
	// widget's behavior of always having a pinned node.
	for _, n := range nodes {
		if n.Path == "/" {
			return n, true
		}
	}
	return model.Node{}, false
}
