package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/sitegraph/pkg/config"
)

func writeTestSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	idx := `[
  {"href": "/notes/heat/", "title": "Heat Stress"},
  {"href": "/reading/ar6/", "title": "IPCC AR6"}
]`
	if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte(idx), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func testConfig(t *testing.T) config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.Dir = writeTestSite(t)
	cfg.Site.BaseURL = ""
	return cfg
}

func TestLoadNodes_LocalIndex(t *testing.T) {
	cfg := testConfig(t)
	nodes, err := loadNodes(context.Background(), cfg, "/")
	if err != nil {
		t.Fatalf("loadNodes: %v", err)
	}
	// 6 core nodes plus the two discovered pages
	if len(nodes) != 8 {
		t.Errorf("got %d nodes", len(nodes))
	}
}

func TestLoadNodes_MissingIndexFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Site.Dir = t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loadNodes(ctx, cfg, "/"); err == nil {
		t.Error("expected error when index never appears")
	}
}

func TestRun_ExportDB(t *testing.T) {
	cfg := testConfig(t)
	dbPath := filepath.Join(t.TempDir(), "graph.db")
	if err := run(cfg, "/", "", "full", "", false, false, dbPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Errorf("exported %d nodes", n)
	}
}

func TestRun_Snapshot(t *testing.T) {
	cfg := testConfig(t)
	out := filepath.Join(t.TempDir(), "graph.svg")
	if err := run(cfg, "/notes/heat/", out, "mini", "Test Site", false, false, ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}
