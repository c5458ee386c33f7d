package index

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

const sampleIndex = `[
	{"href": "/notes/heatwaves.html", "title": "Heatwave Metrics"},
	{"href": "/notes/index.html", "title": "Notes"},
	{"href": "/work/attribution.html", "title": "Attribution Study", "description": "Event attribution"},
	{"href": "/reading/2024.html#q1", "title": "Reading 2024"},
	{"href": "/notes/heatwaves.html", "title": "Duplicate"},
	{"href": "", "title": "Blank"}
]`

func TestLoad_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleIndex))
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	nodes := l.Load(context.Background(), srv.URL, "/")

	byPath := make(map[string]model.Node)
	for _, n := range nodes {
		if byPath[n.Path].Path == n.Path && byPath[n.Path].Path != "" {
			t.Errorf("duplicate path %q in node set", n.Path)
		}
		byPath[n.Path] = n
	}

	// Core navigation nodes are always present.
	for _, p := range []string{"/", "/about/", "/archive/", "/notes/", "/work/", "/reading/"} {
		if _, ok := byPath[p]; !ok {
			t.Errorf("core node %q missing", p)
		}
	}

	// /notes/index.html folds into the existing /notes/ core node.
	if got := len(nodes); got != len(CoreNodes())+3 {
		t.Errorf("expected %d nodes, got %d", len(CoreNodes())+3, got)
	}

	hw, ok := byPath["/notes/heatwaves.html"]
	if !ok {
		t.Fatal("heatwaves node missing")
	}
	if hw.Label != "Heatwave Metrics" {
		t.Errorf("first title wins on dedup, got %q", hw.Label)
	}
	if hw.Category != model.CategoryNotes {
		t.Errorf("expected notes category, got %q", hw.Category)
	}

	// Fragment stripped during normalization.
	if _, ok := byPath["/reading/2024.html"]; !ok {
		t.Error("fragment should be stripped from /reading/2024.html#q1")
	}
}

func TestLoad_FallbackToRelative(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		// Primary site-root fetch fails; the relative candidate resolved
		// against the current page succeeds.
		if len(paths) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"href": "/notes/extra.html", "title": "Extra"}]`))
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	nodes := l.Load(context.Background(), srv.URL, "/notes/heatwaves.html")

	if len(paths) != 2 {
		t.Fatalf("expected 2 fetch attempts, got %d (%v)", len(paths), paths)
	}
	found := false
	for _, n := range nodes {
		if n.Path == "/notes/extra.html" {
			found = true
		}
	}
	if !found {
		t.Error("fallback index content not resolved")
	}
}

func TestLoad_DegradesToCoreSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	nodes := l.Load(context.Background(), srv.URL, "/")

	core := CoreNodes()
	if len(nodes) != len(core) {
		t.Fatalf("degraded set should equal core set: got %d nodes, want %d", len(nodes), len(core))
	}
	for i, n := range nodes {
		if n.Path != core[i].Path {
			t.Errorf("node %d: got path %q, want %q", i, n.Path, core[i].Path)
		}
	}
}

func TestResolve_InvalidEntriesSkipped(t *testing.T) {
	nodes := Resolve([]Entry{
		{Href: "   ", Title: "whitespace"},
		{Href: "/now/", Title: "Now"},
	})
	count := 0
	for _, n := range nodes {
		if n.Path == "/now/" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one /now/ node, got %d", count)
	}
}

func TestCoreNodes_Categories(t *testing.T) {
	for _, n := range CoreNodes() {
		if err := n.Validate(); err != nil {
			t.Errorf("core node %s invalid: %v", n.ID, err)
		}
	}
}
