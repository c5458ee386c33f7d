// Package server is the development server for the rendered site: static
// files served without caching so edits show up on reload, plus a JSON
// endpoint exposing the link graph.
package server

import (
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/go-chi/chi/v5"

	"github.com/vanderheijden86/sitegraph/pkg/graph"
	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// StoreProvider returns the current graph store. The store is replaced
// wholesale on index reload, so handlers fetch it per request.
type StoreProvider func() *graph.Store

// NewRouter mounts the static site and the graph endpoint.
func NewRouter(siteDir string, store StoreProvider) chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(noCache)

	r.Get("/graph.json", graphHandler(store))
	r.Handle("/*", http.FileServer(http.Dir(siteDir)))
	return r
}

// ListenAndServe runs the dev server until the listener fails.
func ListenAndServe(addr, siteDir string, store StoreProvider) error {
	slog.Info("serving site", slog.String("dir", siteDir), slog.String("addr", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(siteDir, store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type graphPayload struct {
	Nodes []model.Node `json:"nodes"`
	Links []model.Edge `json:"links"`
}

func graphHandler(store StoreProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := store()
		if s == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "graph not ready"})
			return
		}
		writeJSON(w, http.StatusOK, graphPayload{Nodes: s.Nodes(), Links: s.Edges()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", slog.String("error", err.Error()))
	}
}

// noCache disables client caching entirely. A dev server that caches
// serves stale pages right after a rebuild.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("took", time.Since(start)),
		)
	})
}
