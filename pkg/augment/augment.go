// Package augment rewrites rendered pages in place: backlink and
// related-content sections derived from the link graph, a breadcrumb
// trail from the URL path, an estimated reading time near the title,
// and a reading-progress indicator element. Injection is idempotent,
// so re-running over an already augmented site replaces each section
// instead of duplicating it.
package augment

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/sitegraph/pkg/debug"
	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// WordsPerMinute is the reading-speed assumption behind the reading-time
// estimate.
const WordsPerMinute = 200

// Crumb is one segment of a breadcrumb trail.
type Crumb struct {
	Label string
	Path  string
}

// Backlinks lists the nodes linking TO the given node, self excluded,
// deduplicated by page path. Edges referencing unknown nodes are skipped.
func Backlinks(store *graph.Store, currentID string) []model.Node {
	return neighbors(store, currentID, func(e model.Edge) (string, bool) {
		return e.Source, e.Target == currentID
	})
}

// Related lists the nodes the given node links to, same rules as
// Backlinks.
func Related(store *graph.Store, currentID string) []model.Node {
	return neighbors(store, currentID, func(e model.Edge) (string, bool) {
		return e.Target, e.Source == currentID
	})
}

func neighbors(store *graph.Store, currentID string, pick func(model.Edge) (string, bool)) []model.Node {
	var out []model.Node
	seen := make(map[string]bool)
	for _, e := range store.Edges() {
		other, ok := pick(e)
		if !ok || other == currentID {
			continue
		}
		n, found := store.Node(other)
		if !found || seen[n.Path] {
			continue
		}
		seen[n.Path] = true
		out = append(out, n)
	}
	return out
}

// Breadcrumbs derives the trail from URL path segments. A literal
// index.html segment is dropped, hyphenated segments are titleized, and
// the final segment is replaced by the rendered page title when one is
// known. The homepage produces no trail.
func Breadcrumbs(pagePath, pageTitle string) []Crumb {
	pagePath = model.NormalizePath(pagePath)
	if pagePath == "/" {
		return nil
	}
	segs := make([]string, 0, 4)
	for _, s := range strings.Split(strings.Trim(pagePath, "/"), "/") {
		if s == "" || s == "index.html" {
			continue
		}
		segs = append(segs, s)
	}
	crumbs := make([]Crumb, 0, len(segs)+1)
	crumbs = append(crumbs, Crumb{Label: "Home", Path: "/"})
	acc := ""
	for i, s := range segs {
		acc += "/" + s
		label := Titleize(strings.TrimSuffix(s, ".html"))
		p := acc
		if !strings.HasSuffix(p, ".html") {
			p += "/"
		}
		if i == len(segs)-1 && pageTitle != "" {
			label = pageTitle
		}
		crumbs = append(crumbs, Crumb{Label: label, Path: p})
	}
	return crumbs
}

// Titleize turns a hyphenated path segment into display text, capitalizing
// each word.
func Titleize(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// ReadingTime estimates minutes for a word count, never below one minute.
func ReadingTime(words int) int {
	mins := (words + WordsPerMinute - 1) / WordsPerMinute
	if mins < 1 {
		mins = 1
	}
	return mins
}

// Augmenter rewrites the rendered pages of a site directory.
type Augmenter struct {
	SiteDir string
	Store   *graph.Store
}

// New returns an Augmenter over the given site directory and graph.
func New(siteDir string, store *graph.Store) *Augmenter {
	return &Augmenter{SiteDir: siteDir, Store: store}
}

// Run augments every rendered page under the site directory except the
// homepage, processing files concurrently. A page that cannot be parsed
// is logged and skipped rather than failing the run.
func (a *Augmenter) Run(ctx context.Context) error {
	var pages []string
	err := filepath.WalkDir(a.SiteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning site dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, page := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.AugmentFile(page); err != nil {
				debug.Log("augment %s: %v", page, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// AugmentFile rewrites a single page in place. The homepage is left
// untouched.
func (a *Augmenter) AugmentFile(file string) error {
	pagePath, err := a.pagePath(file)
	if err != nil {
		return err
	}
	if pagePath == "/" {
		return nil
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading page: %w", err)
	}
	out, err := Apply(raw, a.Store, pagePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, out, 0o644); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

func (a *Augmenter) pagePath(file string) (string, error) {
	rel, err := filepath.Rel(a.SiteDir, file)
	if err != nil {
		return "", fmt.Errorf("resolving page path: %w", err)
	}
	return model.NormalizePath("/" + filepath.ToSlash(rel)), nil
}
