package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

func testSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>home</body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func testStore() *graph.Store {
	return graph.NewStore(
		[]model.Node{{ID: "home", Label: "Home", Path: "/", Category: model.CategoryNav}},
		nil,
	)
}

func TestStaticFilesNoCache(t *testing.T) {
	store := testStore()
	srv := httptest.NewServer(NewRouter(testSite(t), func() *graph.Store { return store }))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/index.html")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := resp.Header.Get("Pragma"); got != "no-cache" {
		t.Errorf("Pragma = %q", got)
	}
	if got := resp.Header.Get("Expires"); got != "0" {
		t.Errorf("Expires = %q", got)
	}
}

func TestGraphEndpoint(t *testing.T) {
	store := graph.NewStore(
		[]model.Node{
			{ID: "home", Label: "Home", Path: "/", Category: model.CategoryNav},
			{ID: "notes", Label: "Notes", Path: "/notes/", Category: model.CategoryNav},
		},
		[]model.Edge{{Source: "notes", Target: "home"}},
	)
	srv := httptest.NewServer(NewRouter(testSite(t), func() *graph.Store { return store }))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/graph.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var payload struct {
		Nodes []model.Node `json:"nodes"`
		Links []model.Edge `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Nodes) != 2 || len(payload.Links) != 1 {
		t.Errorf("payload = %d nodes, %d links", len(payload.Nodes), len(payload.Links))
	}
	if payload.Links[0].Source != "notes" {
		t.Errorf("link source = %q", payload.Links[0].Source)
	}
}

func TestGraphEndpoint_NotReady(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testSite(t), func() *graph.Store { return nil }))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/graph.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}
