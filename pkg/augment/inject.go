package augment

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// Class markers for injected elements. Replacing by marker class is what
// makes re-augmentation idempotent.
const (
	classBacklinks   = "sg-backlinks"
	classRelated     = "sg-related"
	classBreadcrumbs = "sg-breadcrumbs"
	classReadingTime = "sg-reading-time"
	classProgress    = "sg-progress"
)

// Apply augments a single rendered page and returns the rewritten markup.
// The page keeps its structure; previously injected sections of the same
// kind are replaced in place.
func Apply(raw []byte, store *graph.Store, pagePath string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, fmt.Errorf("page %s has no body element", pagePath)
	}
	removeMarked(body)

	title := pageTitle(doc)
	content := findElement(body, atom.Main)
	if content == nil {
		content = body
	}

	injectProgress(body)
	injectReadingTime(content, ReadingTime(countWords(content)))
	injectBreadcrumbs(content, Breadcrumbs(pagePath, title))

	// Pages absent from the graph resolve to the homepage fallback; those
	// get breadcrumbs and reading time but no link sections.
	if current, ok := graph.ResolveCurrent(store.Nodes(), pagePath); ok && current.Path != "/" {
		injectList(body, content, classBacklinks, "Linked from", Backlinks(store, current.ID))
		injectList(body, content, classRelated, "Related", Related(store, current.ID))
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}

// injectList appends a linked-list section before the page footer when one
// exists, else at the end of the content region. Empty lists inject
// nothing.
func injectList(body, content *html.Node, class, heading string, nodes []model.Node) {
	if len(nodes) == 0 {
		return
	}
	sec := elem(atom.Section, class)
	h := elem(atom.H2, "")
	h.AppendChild(text(heading))
	sec.AppendChild(h)
	ul := elem(atom.Ul, "")
	for _, n := range nodes {
		li := elem(atom.Li, "")
		a := elem(atom.A, "")
		a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: n.Path})
		a.AppendChild(text(n.Label))
		li.AppendChild(a)
		ul.AppendChild(li)
	}
	sec.AppendChild(ul)

	if footer := findElement(body, atom.Footer); footer != nil {
		footer.Parent.InsertBefore(sec, footer)
		return
	}
	content.AppendChild(sec)
}

func injectBreadcrumbs(content *html.Node, crumbs []Crumb) {
	if len(crumbs) == 0 {
		return
	}
	nav := elem(atom.Nav, classBreadcrumbs)
	ol := elem(atom.Ol, "")
	for _, c := range crumbs {
		li := elem(atom.Li, "")
		a := elem(atom.A, "")
		a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: c.Path})
		a.AppendChild(text(c.Label))
		li.AppendChild(a)
		ol.AppendChild(li)
	}
	nav.AppendChild(ol)
	content.InsertBefore(nav, content.FirstChild)
}

// injectReadingTime places the annotation right after the first heading,
// falling back to the top of the content region.
func injectReadingTime(content *html.Node, minutes int) {
	span := elem(atom.Span, classReadingTime)
	span.AppendChild(text(strconv.Itoa(minutes) + " min read"))
	if h1 := findElement(content, atom.H1); h1 != nil {
		h1.Parent.InsertBefore(span, h1.NextSibling)
		return
	}
	content.InsertBefore(span, content.FirstChild)
}

func injectProgress(body *html.Node) {
	div := elem(atom.Div, classProgress)
	div.Attr = append(div.Attr,
		html.Attribute{Key: "role", Val: "progressbar"},
		html.Attribute{Key: "data-progress", Val: "0"},
	)
	body.InsertBefore(div, body.FirstChild)
}

// removeMarked strips every previously injected element so injection can
// run again without duplicating sections.
func removeMarked(n *html.Node) {
	var doomed []*html.Node
	walk(n, func(c *html.Node) {
		if c.Type == html.ElementNode && isMarked(c) {
			doomed = append(doomed, c)
		}
	})
	for _, d := range doomed {
		if d.Parent != nil {
			d.Parent.RemoveChild(d)
		}
	}
}

func isMarked(n *html.Node) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		switch c {
		case classBacklinks, classRelated, classBreadcrumbs, classReadingTime, classProgress:
			return true
		}
	}
	return false
}

func pageTitle(doc *html.Node) string {
	if t := findElement(doc, atom.Title); t != nil {
		return strings.TrimSpace(collectText(t))
	}
	return ""
}

func countWords(n *html.Node) int {
	return len(strings.Fields(collectText(n)))
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteString(" ")
		}
	})
	return sb.String()
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found == nil && c.Type == html.ElementNode && c.DataAtom == a {
			found = c
		}
	})
	return found
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func elem(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
