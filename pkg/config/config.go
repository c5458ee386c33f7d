// Package config handles loading and saving sitegraph configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/sitegraph/config.yaml
//   - State:   ~/.local/state/sitegraph/ (recent-pages log)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManualEdge is a hand-authored directed relationship between two pages,
// identified by node ID. Manual edges are ground truth: inference never
// removes or overrides them.
type ManualEdge struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// GraphConfig controls graph construction.
type GraphConfig struct {
	ManualEdges []ManualEdge `yaml:"manual_edges,omitempty"`
	// SeriesMinStem is the minimum stem length (in runes) for the
	// series-name inference rule. Short stems produce false positives.
	SeriesMinStem int `yaml:"series_min_stem,omitempty"`
}

// SiteConfig describes the hosting site.
type SiteConfig struct {
	// Dir is the generated site output directory (e.g. _site).
	Dir string `yaml:"dir,omitempty"`
	// BaseURL is the site root used for index and preview fetches.
	BaseURL string `yaml:"base_url,omitempty"`
	// IndexFile is the page-index resource name at the site root.
	IndexFile string `yaml:"index_file,omitempty"`
}

// ServeConfig controls the dev server.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Config is the top-level configuration for sitegraph.
type Config struct {
	Site  SiteConfig  `yaml:"site,omitempty"`
	Graph GraphConfig `yaml:"graph,omitempty"`
	Serve ServeConfig `yaml:"serve,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Dir:       "_site",
			IndexFile: "index.json",
		},
		Graph: GraphConfig{
			SeriesMinStem: 8,
		},
		Serve: ServeConfig{
			Addr: ":5000",
		},
	}
}

// ConfigDir returns the XDG config directory for sitegraph.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sitegraph")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sitegraph")
}

// StateDir returns the XDG state directory for sitegraph.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sitegraph")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "sitegraph")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Site.IndexFile == "" {
		cfg.Site.IndexFile = "index.json"
	}
	if cfg.Graph.SeriesMinStem <= 0 {
		cfg.Graph.SeriesMinStem = 8
	}
	cfg.Site.Dir = expandHome(cfg.Site.Dir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
