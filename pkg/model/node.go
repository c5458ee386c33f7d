// Package model defines the core link-graph types shared by every other
// package: pages become nodes, links between pages become directed edges.
package model

import (
	"fmt"
	"strings"
)

// Category classifies a page for color-coding and filtering. The set is
// closed: every node carries exactly one of these values.
type Category string

const (
	CategoryNav     Category = "nav"
	CategoryNotes   Category = "notes"
	CategoryWork    Category = "work"
	CategoryReading Category = "reading"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{CategoryNav, CategoryNotes, CategoryWork, CategoryReading}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNav, CategoryNotes, CategoryWork, CategoryReading:
		return true
	}
	return false
}

// Node is a representable page in the link graph.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Path     string   `json:"path"`
	Category Category `json:"category"`
}

// Edge is a directed relationship between two nodes, referenced by ID.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Validate checks the node's structural invariants.
func (n Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node has empty id (path %q)", n.Path)
	}
	if n.Path == "" {
		return fmt.Errorf("node %s has empty path", n.ID)
	}
	if !strings.HasPrefix(n.Path, "/") {
		return fmt.Errorf("node %s path %q is not site-relative", n.ID, n.Path)
	}
	if !n.Category.Valid() {
		return fmt.Errorf("node %s has unknown category %q", n.ID, n.Category)
	}
	return nil
}

// NormalizePath canonicalizes a site-relative path: fragments and query
// strings are stripped, "index.html" collapses into its directory, and the
// result always starts with "/". Directory paths keep their trailing slash
// so "/notes/" and "/notes/index.html" normalize identically.
func NormalizePath(p string) string {
	if i := strings.IndexAny(p, "#?"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if strings.HasSuffix(p, "/index.html") {
		p = strings.TrimSuffix(p, "index.html")
	}
	if p == "" {
		p = "/"
	}
	return p
}

// SlugFromPath derives a stable node ID from a normalized path.
// "/" becomes "home"; other paths drop the surrounding slashes and the
// ".html" extension, with the remaining separators hyphenated.
func SlugFromPath(p string) string {
	p = NormalizePath(p)
	if p == "/" {
		return "home"
	}
	s := strings.Trim(p, "/")
	s = strings.TrimSuffix(s, ".html")
	s = strings.ReplaceAll(s, "/", "-")
	if s == "" {
		return "home"
	}
	return s
}

// CategoryForPath derives the category from the first path segment.
// Pages outside the notes/work/reading sections are navigation pages.
func CategoryForPath(p string) Category {
	p = NormalizePath(p)
	seg := strings.Trim(p, "/")
	if i := strings.Index(seg, "/"); i >= 0 {
		seg = seg[:i]
	}
	switch seg {
	case "notes":
		return CategoryNotes
	case "work":
		return CategoryWork
	case "reading":
		return CategoryReading
	default:
		return CategoryNav
	}
}

// IsIndexPath reports whether p is a section index: the site root or a
// category root such as /notes/. Pretty-URL content pages also carry a
// trailing slash, so the suffix alone does not identify an index.
func IsIndexPath(p string) bool {
	p = NormalizePath(p)
	if p == "/" {
		return true
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	for _, c := range AllCategories {
		if p == "/"+string(c)+"/" {
			return true
		}
	}
	return false
}

// NewNode builds a node from a raw href and display title, normalizing the
// path and deriving ID and category from it.
func NewNode(href, title string) Node {
	p := NormalizePath(href)
	if title == "" {
		title = SlugFromPath(p)
	}
	return Node{
		ID:       SlugFromPath(p),
		Label:    title,
		Path:     p,
		Category: CategoryForPath(p),
	}
}
