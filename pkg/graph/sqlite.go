package graph

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

// ExportSQLite writes the graph and its metrics to a SQLite database for
// downstream tooling (dashboards, ad-hoc queries). Any existing database
// at path is replaced.
func ExportSQLite(store *Store, stats *Stats, path string) error {
	if store == nil {
		return fmt.Errorf("nil store")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := createSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	nodeStmt, err := tx.Prepare(`INSERT INTO nodes (id, label, path, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare nodes insert: %w", err)
	}
	defer nodeStmt.Close()
	for _, n := range store.Nodes() {
		if _, err := nodeStmt.Exec(n.ID, n.Label, n.Path, string(n.Category)); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.Prepare(`INSERT INTO edges (source, target) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare edges insert: %w", err)
	}
	defer edgeStmt.Close()
	for _, e := range DropDangling(store.Nodes(), store.Edges()) {
		if _, err := edgeStmt.Exec(e.Source, e.Target); err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.Source, e.Target, err)
		}
	}

	if stats != nil {
		metricStmt, err := tx.Prepare(`INSERT INTO metrics (node_id, in_degree, out_degree, pagerank) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare metrics insert: %w", err)
		}
		defer metricStmt.Close()
		for _, n := range store.Nodes() {
			if _, err := metricStmt.Exec(n.ID, stats.InDegree[n.ID], stats.OutDegree[n.ID], stats.PageRank[n.ID]); err != nil {
				return fmt.Errorf("insert metrics for %s: %w", n.ID, err)
			}
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('exported_at', ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			path TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			source TEXT NOT NULL REFERENCES nodes(id),
			target TEXT NOT NULL REFERENCES nodes(id),
			PRIMARY KEY (source, target)
		)`,
		`CREATE TABLE IF NOT EXISTS metrics (
			node_id TEXT PRIMARY KEY REFERENCES nodes(id),
			in_degree INTEGER NOT NULL,
			out_degree INTEGER NOT NULL,
			pagerank REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
