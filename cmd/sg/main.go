package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/vanderheijden86/sitegraph/pkg/augment"
	"github.com/vanderheijden86/sitegraph/pkg/config"
	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/index"
	"github.com/vanderheijden86/sitegraph/pkg/model"
	"github.com/vanderheijden86/sitegraph/pkg/mount"
	"github.com/vanderheijden86/sitegraph/pkg/preview"
	"github.com/vanderheijden86/sitegraph/pkg/recent"
	"github.com/vanderheijden86/sitegraph/pkg/render"
	"github.com/vanderheijden86/sitegraph/pkg/server"
	"github.com/vanderheijden86/sitegraph/pkg/version"
	"github.com/vanderheijden86/sitegraph/pkg/viewer"
	"github.com/vanderheijden86/sitegraph/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	siteDir := flag.String("site", "", "Generated site directory (overrides config)")
	baseURL := flag.String("base", "", "Site base URL for index and preview fetches")
	page := flag.String("page", "/", "Current page path")
	snapshot := flag.String("snapshot", "", "Write a graph snapshot to this path (.svg or .png) and exit")
	preset := flag.String("preset", "full", "Snapshot layout preset: mini or full")
	title := flag.String("title", "", "Snapshot title")
	augmentFlag := flag.Bool("augment", false, "Rewrite site pages with backlinks, related content and breadcrumbs")
	serveFlag := flag.Bool("serve", false, "Run the dev server over the site directory")
	exportDB := flag.String("export-db", "", "Export the graph and metrics to a SQLite database and exit")
	flag.Parse()

	if *help {
		fmt.Println("Usage: sg [options]")
		fmt.Println("\nLink-graph toolkit for static sites: interactive viewer, page")
		fmt.Println("augmentation, snapshots and a dev server.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("sg %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if *siteDir != "" {
		cfg.Site.Dir = *siteDir
	}
	if *baseURL != "" {
		cfg.Site.BaseURL = *baseURL
	}

	if err := run(cfg, *page, *snapshot, *preset, *title, *augmentFlag, *serveFlag, *exportDB); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, page, snapshot, preset, title string, augmentFlag, serveFlag bool, exportDB string) error {
	ctx := context.Background()

	nodes, err := loadNodes(ctx, cfg, page)
	if err != nil {
		return err
	}

	minStem := cfg.Graph.SeriesMinStem
	builder := graph.NewBuilder(minStem)
	edges := builder.Build(nodes, cfg.Graph.ManualEdges)
	store := graph.NewStore(nodes, edges)
	stats := graph.Analyze(nodes, edges)

	switch {
	case exportDB != "":
		if err := graph.ExportSQLite(store, stats, exportDB); err != nil {
			return fmt.Errorf("exporting database: %w", err)
		}
		fmt.Printf("Exported %d nodes to %s\n", store.Len(), exportDB)
		return nil

	case snapshot != "":
		recentLog := recent.Load(recent.DefaultPath())
		err := render.SaveSnapshot(render.SnapshotOptions{
			Path:        snapshot,
			Title:       title,
			Preset:      preset,
			Store:       store,
			Stats:       stats,
			CurrentPath: page,
			Recent:      recentLog.PathSet(),
		})
		if err != nil {
			return fmt.Errorf("rendering snapshot: %w", err)
		}
		fmt.Printf("Wrote %s\n", snapshot)
		return nil

	case augmentFlag:
		return augment.New(cfg.Site.Dir, store).Run(ctx)

	case serveFlag:
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		return serve(ctx, cfg, builder, store)

	default:
		return viewer.Run(viewer.Options{
			Store:       store,
			Stats:       stats,
			BaseURL:     cfg.Site.BaseURL,
			CurrentPath: page,
			Previews:    preview.NewHTMLSource(cfg.Site.BaseURL, nodes),
			RecentFile:  recent.DefaultPath(),
			Theme:       viewer.DefaultTheme(),
		})
	}
}

// serve runs the dev server, swapping in a freshly built store whenever
// the generator rewrites the page index. Consumers only ever see a
// complete store; the old one is replaced wholesale.
func serve(ctx context.Context, cfg config.Config, builder *graph.Builder, initial *graph.Store) error {
	var current atomic.Pointer[graph.Store]
	current.Store(initial)

	loader := index.NewLoader(index.WithIndexFile(cfg.Site.IndexFile))
	w, err := watcher.New(filepath.Join(cfg.Site.Dir, cfg.Site.IndexFile))
	if err != nil {
		return fmt.Errorf("watching page index: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching page index: %w", err)
	}
	defer w.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.Changed():
				nodes, err := loader.LoadFile(cfg.Site.Dir)
				if err != nil {
					slog.Error("index reload failed", slog.String("error", err.Error()))
					continue
				}
				edges := builder.Build(nodes, cfg.Graph.ManualEdges)
				current.Store(graph.NewStore(nodes, edges))
				slog.Info("graph reloaded", slog.Int("nodes", len(nodes)), slog.Int("edges", len(edges)))
			}
		}
	}()

	return server.ListenAndServe(cfg.Serve.Addr, cfg.Site.Dir, current.Load)
}

// loadNodes prefers the remote index when a base URL is set, falling back
// to the local site directory. The local path waits for the generator's
// first build before reading.
func loadNodes(ctx context.Context, cfg config.Config, page string) ([]model.Node, error) {
	loader := index.NewLoader(index.WithIndexFile(cfg.Site.IndexFile))

	if u := cfg.Site.BaseURL; strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return loader.Load(ctx, u, page), nil
	}

	if err := mount.EnsureMounted(ctx, cfg.Site.Dir, cfg.Site.IndexFile, mount.DefaultOptions()); err != nil {
		return nil, fmt.Errorf("site index never appeared: %w", err)
	}
	nodes, err := loader.LoadFile(cfg.Site.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading site index: %w", err)
	}
	return nodes, nil
}
