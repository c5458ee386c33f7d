package graph

import (
	"path"
	"regexp"
	"strings"

	"github.com/vanderheijden86/sitegraph/pkg/config"
	"github.com/vanderheijden86/sitegraph/pkg/debug"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// DefaultSeriesMinStem is the minimum stripped-stem length for the
// series-name inference rule. Short stems match too eagerly.
const DefaultSeriesMinStem = 8

// seriesSuffixRe strips a trailing numeric part/series marker from a path
// stem, e.g. "drought-part-2" and "drought-3" both reduce to "drought".
var seriesSuffixRe = regexp.MustCompile(`(?:-part)?-\d+$`)

// Builder merges the hand-authored manual edge set with structurally
// inferred edges. Manual edges are ground truth and always survive the
// merge; inferred edges are appended only when the ordered pair is new.
type Builder struct {
	seriesMinStem int
}

// NewBuilder creates a Builder. A non-positive minStem falls back to
// DefaultSeriesMinStem.
func NewBuilder(minStem int) *Builder {
	if minStem <= 0 {
		minStem = DefaultSeriesMinStem
	}
	return &Builder{seriesMinStem: minStem}
}

// Build computes the full edge set for the node list: the manual edges
// followed by inferred ones. Rebuilding from the same inputs yields the
// same edge content; order is deterministic as well since inference walks
// the node list in input order.
func (b *Builder) Build(nodes []model.Node, manual []config.ManualEdge) []model.Edge {
	edges := make([]model.Edge, 0, len(manual))
	seen := make(map[model.Edge]bool, len(manual))

	add := func(source, target string) {
		if source == "" || target == "" || source == target {
			return
		}
		e := model.Edge{Source: source, Target: target}
		if seen[e] {
			return
		}
		seen[e] = true
		edges = append(edges, e)
	}

	for _, m := range manual {
		add(m.Source, m.Target)
	}

	indexByCategory := make(map[model.Category]string)
	for _, n := range nodes {
		if n.Path == "/"+string(n.Category)+"/" {
			indexByCategory[n.Category] = n.ID
		}
	}

	// Section membership edges: every non-index notes/work page links to
	// its section index.
	for _, n := range nodes {
		if model.IsIndexPath(n.Path) {
			continue
		}
		switch n.Category {
		case model.CategoryNotes, model.CategoryWork:
			if idx := indexByCategory[n.Category]; idx != "" {
				add(n.ID, idx)
			}
		}
	}

	// Sibling edges: same-category pages sharing a parent directory below
	// the category root link both ways.
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, c := nodes[i], nodes[j]
			if a.Category != c.Category {
				continue
			}
			if a.Path == "/"+string(a.Category)+"/" || c.Path == "/"+string(c.Category)+"/" {
				continue
			}
			pa, pc := parentDir(a.Path), parentDir(c.Path)
			if pa != pc {
				continue
			}
			if !deeperThanCategoryRoot(pa, a.Category) {
				continue
			}
			add(a.ID, c.ID)
			add(c.ID, a.ID)
		}
	}

	// Series edges: paths identical after stripping a trailing numeric
	// part suffix, with a stem long enough to avoid false positives.
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, c := nodes[i], nodes[j]
			sa, aStripped := seriesStem(a.Path)
			sc, cStripped := seriesStem(c.Path)
			if sa != sc || (!aStripped && !cStripped) {
				continue
			}
			if len([]rune(path.Base(sa))) < b.seriesMinStem {
				continue
			}
			add(a.ID, c.ID)
			add(c.ID, a.ID)
		}
	}

	debug.Log("graph build: %d nodes, %d manual, %d total edges",
		len(nodes), len(manual), len(edges))
	return edges
}

// DropDangling returns the edges whose both endpoints exist in nodes.
// Dangling references are an expected consequence of filtering and are
// excluded silently.
func DropDangling(nodes []model.Node, edges []model.Edge) []model.Edge {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	out := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if ids[e.Source] && ids[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

func parentDir(p string) string {
	p = strings.TrimSuffix(p, "/")
	return path.Dir(p)
}

// deeperThanCategoryRoot reports whether dir sits below /<category>/,
// e.g. /notes/extremes for category notes. Pages directly under the
// category root share only the root itself and are not siblings.
func deeperThanCategoryRoot(dir string, cat model.Category) bool {
	root := "/" + string(cat)
	return dir != root && strings.HasPrefix(dir, root+"/")
}

// seriesStem returns the path with any trailing numeric series suffix
// removed, and whether a suffix was actually stripped. The stripped stem
// length is checked against the minimum on the final path segment, so the
// section prefix does not inflate short names past the threshold.
func seriesStem(p string) (string, bool) {
	stem := strings.TrimSuffix(p, "/")
	stem = strings.TrimSuffix(stem, ".html")
	if !seriesSuffixRe.MatchString(stem) {
		return stem, false
	}
	return seriesSuffixRe.ReplaceAllString(stem, ""), true
}
