package model

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"root", "/", "/"},
		{"empty", "", "/"},
		{"index collapses", "/notes/index.html", "/notes/"},
		{"root index", "/index.html", "/"},
		{"fragment stripped", "/notes/heatwaves.html#methods", "/notes/heatwaves.html"},
		{"query stripped", "/search/?q=risk", "/search/"},
		{"relative gains slash", "notes/heatwaves.html", "/notes/heatwaves.html"},
		{"directory keeps slash", "/reading/", "/reading/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.in); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "home"},
		{"/index.html", "home"},
		{"/notes/", "notes"},
		{"/notes/heatwaves.html", "notes-heatwaves"},
		{"/work/models/ensembles.html", "work-models-ensembles"},
	}
	for _, tt := range tests {
		if got := SlugFromPath(tt.in); got != tt.want {
			t.Errorf("SlugFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategoryForPath(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"/", CategoryNav},
		{"/about/", CategoryNav},
		{"/notes/heatwaves.html", CategoryNotes},
		{"/work/", CategoryWork},
		{"/reading/2024.html", CategoryReading},
	}
	for _, tt := range tests {
		if got := CategoryForPath(tt.in); got != tt.want {
			t.Errorf("CategoryForPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsIndexPath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/", true},
		{"/index.html", true},
		{"/notes/", true},
		{"/notes", true},
		{"/work/", true},
		{"/reading/", true},
		{"/notes/heat/", false},
		{"/work/project-0/", false},
		{"/notes/heatwaves.html", false},
	}
	for _, tt := range tests {
		if got := IsIndexPath(tt.in); got != tt.want {
			t.Errorf("IsIndexPath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNodeValidate(t *testing.T) {
	good := NewNode("/notes/heatwaves.html", "Heatwaves")
	if err := good.Validate(); err != nil {
		t.Fatalf("valid node rejected: %v", err)
	}
	bad := Node{ID: "x", Path: "relative", Category: CategoryNav}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-site-relative path")
	}
	unknown := Node{ID: "x", Path: "/x", Category: Category("misc")}
	if err := unknown.Validate(); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("/notes/heatwaves.html#top", "")
	if n.Label != "notes-heatwaves" {
		t.Errorf("empty title should fall back to slug, got %q", n.Label)
	}
	if n.Path != "/notes/heatwaves.html" {
		t.Errorf("fragment should be stripped, got %q", n.Path)
	}
}
