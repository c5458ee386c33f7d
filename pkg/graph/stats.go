package graph

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// Stats holds per-node connectivity metrics used for visual emphasis:
// degree drives node radius, PageRank feeds the exported metrics table.
type Stats struct {
	InDegree  map[string]int
	OutDegree map[string]int
	PageRank  map[string]float64
}

// Degree returns the total connection degree (in + out) for a node.
func (s *Stats) Degree(id string) int {
	return s.InDegree[id] + s.OutDegree[id]
}

// Analyze computes connectivity metrics over the node/edge set. Edges
// referencing missing nodes are skipped, mirroring tolerant rendering.
func Analyze(nodes []model.Node, edges []model.Edge) *Stats {
	stats := &Stats{
		InDegree:  make(map[string]int, len(nodes)),
		OutDegree: make(map[string]int, len(nodes)),
		PageRank:  make(map[string]float64, len(nodes)),
	}
	if len(nodes) == 0 {
		return stats
	}

	g := simple.NewDirectedGraph()
	idToGonum := make(map[string]int64, len(nodes))
	gonumToID := make(map[int64]string, len(nodes))
	for i, n := range nodes {
		gid := int64(i + 1)
		idToGonum[n.ID] = gid
		gonumToID[gid] = n.ID
		g.AddNode(simple.Node(gid))
	}

	for _, e := range DropDangling(nodes, edges) {
		from, to := idToGonum[e.Source], idToGonum[e.Target]
		if from == to {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		stats.OutDegree[e.Source]++
		stats.InDegree[e.Target]++
	}

	// PageRank panics on an empty graph; nodes were added above so the
	// guard is only for the len(nodes) == 0 case handled earlier.
	for gid, rank := range network.PageRank(g, 0.85, 1e-6) {
		stats.PageRank[gonumToID[gid]] = rank
	}

	return stats
}
