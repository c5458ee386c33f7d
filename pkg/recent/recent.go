// Package recent tracks recently visited pages so the graph views can
// emphasize them. The log is a single JSON document in the XDG state
// directory: most-recent-first, deduplicated by path, capped at
// model.MaxRecentVisits entries.
package recent

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sitegraph/pkg/config"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

const fileName = "recent.json"

// Log is the in-memory recent-pages log. The zero value is usable.
type Log struct {
	visits []model.Visit
}

// DefaultPath returns the log location in the XDG state directory.
func DefaultPath() string {
	dir := config.StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// Load reads the log from path. A missing or unreadable file yields an
// empty log: visit history is an enhancement, never a failure source.
func Load(path string) *Log {
	l := &Log{}
	data, err := os.ReadFile(path)
	if err != nil {
		return l
	}
	var visits []model.Visit
	if err := json.Unmarshal(data, &visits); err != nil {
		return l
	}
	if len(visits) > model.MaxRecentVisits {
		visits = visits[:model.MaxRecentVisits]
	}
	l.visits = visits
	return l
}

// Save writes the log to path.
func (l *Log) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.Marshal(l.visits)
	if err != nil {
		return fmt.Errorf("marshaling recent log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing recent log: %w", err)
	}
	return nil
}

// Touch records a visit to the given page: pushed to the front, any
// earlier entry for the same path removed, oldest entries evicted past
// the cap. Called once per page visit.
func (l *Log) Touch(path string, now time.Time) {
	path = model.NormalizePath(path)
	next := make([]model.Visit, 0, len(l.visits)+1)
	next = append(next, model.Visit{Path: path, Timestamp: now})
	for _, v := range l.visits {
		if v.Path == path {
			continue
		}
		next = append(next, v)
	}
	if len(next) > model.MaxRecentVisits {
		next = next[:model.MaxRecentVisits]
	}
	l.visits = next
}

// Visits returns a copy of the log, most recent first.
func (l *Log) Visits() []model.Visit {
	out := make([]model.Visit, len(l.visits))
	copy(out, l.visits)
	return out
}

// Contains reports whether path appears in the log.
func (l *Log) Contains(path string) bool {
	path = model.NormalizePath(path)
	for _, v := range l.visits {
		if v.Path == path {
			return true
		}
	}
	return false
}

// PathSet returns the visited paths as a set for render-time lookups.
func (l *Log) PathSet() map[string]bool {
	set := make(map[string]bool, len(l.visits))
	for _, v := range l.visits {
		set[v.Path] = true
	}
	return set
}
