// Package preview resolves page metadata for hover/focus previews. The
// Source interface is the typed contract; HTMLSource implements it by
// scraping rendered markup, isolated here so it can be swapped for a
// structured endpoint without touching the viewer.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/vanderheijden86/sitegraph/pkg/debug"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// DescriptionLimit caps the extracted description length in runes before
// an ellipsis is appended.
const DescriptionLimit = 150

// Metadata is the typed page-preview contract.
type Metadata struct {
	Title       string
	Description string
	ReadingTime string
	Path        string
	// Degraded marks a preview built without fetched page content
	// (fetch failure or unparseable markup).
	Degraded bool
}

// Source resolves preview metadata for a page path.
type Source interface {
	PageMetadata(ctx context.Context, path string) Metadata
}

// HTMLSource fetches pages from the site and scrapes metadata out of the
// rendered markup. Failures degrade to label+path metadata; they are
// never surfaced as errors.
type HTMLSource struct {
	BaseURL string
	Client  *http.Client
	// Labels maps paths to display labels for degraded tooltips.
	Labels map[string]string
}

// NewHTMLSource builds a scraping source over the given site root.
func NewHTMLSource(baseURL string, nodes []model.Node) *HTMLSource {
	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.Path] = n.Label
	}
	return &HTMLSource{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
		Labels:  labels,
	}
}

// PageMetadata fetches and parses the page at path. Any failure returns
// degraded metadata built from the known label and the path itself.
func (s *HTMLSource) PageMetadata(ctx context.Context, path string) Metadata {
	path = model.NormalizePath(path)
	degraded := Metadata{
		Title:    s.label(path),
		Path:     path,
		Degraded: true,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return degraded
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		debug.Log("preview fetch failed for %s: %v", path, err)
		return degraded
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		debug.Log("preview fetch for %s: status %s", path, resp.Status)
		return degraded
	}

	meta, err := Parse(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return degraded
	}
	meta.Path = path
	if meta.Title == "" {
		meta.Title = degraded.Title
	}
	return meta
}

func (s *HTMLSource) label(path string) string {
	if l, ok := s.Labels[path]; ok && l != "" {
		return l
	}
	return model.SlugFromPath(path)
}

// Parse extracts preview metadata from rendered HTML: the document title,
// the meta description (falling back to the first paragraph, truncated),
// and a previously computed reading-time annotation when the markup
// carries one.
func Parse(r io.Reader) (Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Metadata{}, fmt.Errorf("parsing page: %w", err)
	}

	var meta Metadata
	var firstParagraph string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" {
					meta.Title = strings.TrimSpace(textContent(n))
				}
			case "meta":
				if attr(n, "name") == "description" && meta.Description == "" {
					meta.Description = strings.TrimSpace(attr(n, "content"))
				}
			case "p":
				if firstParagraph == "" {
					firstParagraph = strings.TrimSpace(textContent(n))
				}
			default:
				if meta.ReadingTime == "" && (hasClass(n, "sg-reading-time") || hasClass(n, "reading-time")) {
					meta.ReadingTime = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.Description == "" {
		meta.Description = firstParagraph
	}
	meta.Description = Truncate(meta.Description, DescriptionLimit)
	return meta, nil
}

// Truncate shortens s to limit runes, appending an ellipsis when content
// was cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
