package testutil

import (
	"fmt"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// SiteSpec describes a synthetic site for tests.
type SiteSpec struct {
	Notes   int // note pages, grouped in pairs sharing a series stem
	Work    int
	Reading int
}

// GenerateNodes builds a deterministic node set: the section index pages
// plus the requested number of content pages per category. Series pairs
// are produced for notes so inference has something to find.
func GenerateNodes(spec SiteSpec) []model.Node {
	nodes := []model.Node{
		model.NewNode("/", "Home"),
		model.NewNode("/notes/", "Notes"),
		model.NewNode("/work/", "Work"),
		model.NewNode("/reading/", "Reading"),
	}
	for i := 0; i < spec.Notes; i++ {
		// pairs sharing a stem: heatwave-0-part-1, heatwave-0-part-2, ...
		// The stem stays above the series minimum length so inference
		// links the pairs.
		path := fmt.Sprintf("/notes/heatwave-%d-part-%d/", i/2, i%2+1)
		nodes = append(nodes, mustNode(path))
	}
	for i := 0; i < spec.Work; i++ {
		nodes = append(nodes, mustNode(fmt.Sprintf("/work/project-%d/", i)))
	}
	for i := 0; i < spec.Reading; i++ {
		nodes = append(nodes, mustNode(fmt.Sprintf("/reading/source-%d/", i)))
	}
	return nodes
}

func mustNode(path string) model.Node {
	n := model.NewNode(path, model.SlugFromPath(path))
	if err := n.Validate(); err != nil {
		panic(fmt.Sprintf("generated invalid node %s: %v", path, err))
	}
	return n
}
