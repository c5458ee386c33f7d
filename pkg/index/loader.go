// Package index loads the site's generated page index and resolves it into
// the canonical node list. The index is the single network-fallible input:
// when both the primary and the relative fallback fetch fail, loading
// degrades to a fixed core-navigation node set so everything downstream
// still has nodes to work with.
package index

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sitegraph/pkg/debug"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// Entry is one record of the generated page-index resource.
type Entry struct {
	Href        string `json:"href"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// DefaultTimeout bounds each index fetch attempt.
const DefaultTimeout = 10 * time.Second

// CoreNodes returns the fixed minimal navigation set used when the index
// cannot be loaded. The graph widget must still render from these alone.
func CoreNodes() []model.Node {
	return []model.Node{
		model.NewNode("/", "Home"),
		model.NewNode("/about/", "About"),
		model.NewNode("/archive/", "Archive"),
		model.NewNode("/notes/", "Notes"),
		model.NewNode("/work/", "Work"),
		model.NewNode("/reading/", "Reading"),
	}
}

// Loader fetches and normalizes the page index.
type Loader struct {
	client    *http.Client
	indexFile string
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the HTTP client (tests use this).
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithIndexFile overrides the index resource name (default index.json).
func WithIndexFile(name string) Option {
	return func(l *Loader) { l.indexFile = name }
}

// NewLoader creates a Loader with the default client and resource name.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:    &http.Client{Timeout: DefaultTimeout},
		indexFile: "index.json",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the page index from the site root and returns the resolved
// node list. currentPath picks the relative fallback candidate when the
// primary fetch fails: pages one level deep retry "./", deeper pages retry
// "../". On double failure the fixed core set is returned with a nil error;
// index unavailability is an expected, silently recovered condition.
func (l *Loader) Load(ctx context.Context, baseURL, currentPath string) []model.Node {
	primary := strings.TrimSuffix(baseURL, "/") + "/" + l.indexFile

	entries, err := l.fetch(ctx, primary)
	if err != nil {
		debug.Log("index fetch failed (%s): %v", primary, err)
		// The relative candidate may resolve to the same URL on a
		// root-hosted site; retry regardless, failures can be transient.
		fallback := l.relativeCandidate(baseURL, currentPath)
		if fallback != "" {
			entries, err = l.fetch(ctx, fallback)
		}
		if err != nil {
			debug.Log("index fallback failed, using core node set")
			return CoreNodes()
		}
	}

	return Resolve(entries)
}

// LoadFile reads the page index from the generated site directory. Used by
// the augment, render, and serve commands which operate on local output.
func (l *Loader) LoadFile(siteDir string) ([]model.Node, error) {
	path := filepath.Join(siteDir, l.indexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page index: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing page index %s: %w", path, err)
	}
	return Resolve(entries), nil
}

// Resolve normalizes raw index entries into the canonical node list: core
// navigation nodes unioned with discovered pages, deduplicated by normalized
// path, with standalone index.html entries folded into their directory node.
func Resolve(entries []Entry) []model.Node {
	nodes := CoreNodes()
	seen := make(map[string]bool, len(nodes)+len(entries))
	for _, n := range nodes {
		seen[n.Path] = true
	}

	for _, e := range entries {
		if strings.TrimSpace(e.Href) == "" {
			continue
		}
		n := model.NewNode(e.Href, strings.TrimSpace(e.Title))
		if seen[n.Path] {
			continue
		}
		seen[n.Path] = true
		nodes = append(nodes, n)
	}
	return nodes
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building index request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching index: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading index body: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}
	return entries, nil
}

// relativeCandidate builds the one relative-path fallback URL. A page at
// "/notes/x.html" is one directory deep, so the index may live at "../";
// pages at the root retry "./".
func (l *Loader) relativeCandidate(baseURL, currentPath string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	depth := strings.Count(strings.Trim(model.NormalizePath(currentPath), "/"), "/")
	rel := "./" + l.indexFile
	if depth >= 1 {
		rel = "../" + l.indexFile
	}
	ref, err := url.Parse(rel)
	if err != nil {
		return ""
	}
	pageURL := base.JoinPath(model.NormalizePath(currentPath))
	return pageURL.ResolveReference(ref).String()
}
