// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fortmap/fortmap/internal/geo"
	"github.com/fortmap/fortmap/internal/index"
	"github.com/fortmap/fortmap/internal/query"
	"github.com/fortmap/fortmap/internal/store"
)

// facetParams are the query parameters recognized by the search endpoint.
var facetParams = []string{"type", "period", "region"}

type featuresResponse struct {
	Attribution string              `json:"attribution,omitempty"`
	Features    []geo.Feature       `json:"features"`
	Facets      []index.FilterGroup `json:"facets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleFeatures serves the canonical feature list with its facet groups.
// While the feed is in a failed state it reports 503 so the client can
// offer a retry.
func (s *ServerContext) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	if !s.writeLoadState(w) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(featuresResponse{
		Attribution: s.Config.Attribution,
		Features:    s.Store.Snapshot(),
		Facets:      s.Store.Facets(),
	})
}

// HandleSearch evaluates the free-text term and facet selections from the
// query string and serves the visible subset.
func (s *ServerContext) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.writeLoadState(w) {
		return
	}

	q := r.URL.Query()
	active := make(map[string]string, len(facetParams))
	for _, p := range facetParams {
		if v := q.Get(p); v != "" {
			active[p] = v
		}
	}

	results := query.Evaluate(s.Store.Snapshot(), q.Get("q"), active)
	if q.Get("sort") == "name" {
		query.SortByName(results)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

// HandleReload re-issues the feed fetch, the user-triggered retry for a
// failed initial load.
func (s *ServerContext) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := s.Store.Load(); err != nil {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(featuresResponse{
		Attribution: s.Config.Attribution,
		Features:    s.Store.Snapshot(),
		Facets:      s.Store.Facets(),
	})
}

// HandleEnrich enriches a single feature on demand.
// Path: /api/enrich/{id} where id may itself contain a slash ("node/1").
func (s *ServerContext) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		http.NotFound(w, r)
		return
	}
	id := strings.Join(parts[2:], "/")

	feature, err := s.Store.Enrich(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(feature)
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// writeLoadState reports 503 with the retained load error when the feed is
// unavailable. Returns true when the feed is usable.
func (s *ServerContext) writeLoadState(w http.ResponseWriter) bool {
	if s.Store.Loaded() {
		return true
	}
	err := s.Store.Err()
	if err == nil {
		err = errors.New("feed not loaded yet")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
	return false
}
