// Package store owns the canonical feature list and its derived facets.
// Consumers only ever see copies; the single mutation entry point is the
// replace-by-identifier call used by enrichment.
package store

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/fortmap/fortmap/internal/enrich"
	"github.com/fortmap/fortmap/internal/geo"
	"github.com/fortmap/fortmap/internal/index"
	"github.com/fortmap/fortmap/internal/metrics"
	"github.com/fortmap/fortmap/internal/processor"
)

// ErrNotFound is returned when an identifier matches no feature.
var ErrNotFound = errors.New("feature not found")

// Store holds the loaded features, their facet index and the load error
// state. A failed load is recoverable: Load can be called again.
type Store struct {
	mu       sync.RWMutex
	features []geo.Feature
	facets   []index.FilterGroup
	loadErr  error
	loaded   bool

	src      string
	http     *http.Client
	enricher *enrich.Client
	flight   singleflight.Group
}

// New builds a store for the given feed source. The enricher may be nil if
// enrichment is not wired (the loader does not need it).
func New(src string, client *http.Client, enricher *enrich.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{src: src, http: client, enricher: enricher}
}

// Load fetches and normalizes the feed, replacing the feature list and
// rebuilding the facet index. On failure the previous state is kept and the
// error is retained for the API to report; calling Load again retries.
func (s *Store) Load() error {
	features, err := processor.Load(s.http, s.src)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		outcome := "fetch_error"
		if errors.Is(err, processor.ErrUnrecognizedFormat) {
			outcome = "bad_format"
		}
		metrics.FeedLoads.WithLabelValues(outcome).Inc()
		s.loadErr = err
		log.Error().Err(err).Str("source", s.src).Msg("Feed load failed")
		return err
	}

	metrics.FeedLoads.WithLabelValues("ok").Inc()
	s.features = features
	s.facets = index.Build(features)
	s.loadErr = nil
	s.loaded = true

	log.Info().
		Int("features", len(features)).
		Int("facet_groups", len(s.facets)).
		Str("source", s.src).
		Msg("Feed loaded")
	return nil
}

// Err returns the retained load error, nil once a load has succeeded.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Loaded reports whether any load has ever succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of the canonical feature list.
func (s *Store) Snapshot() []geo.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]geo.Feature(nil), s.features...)
}

// Facets returns a copy of the facet groups.
func (s *Store) Facets() []index.FilterGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]index.FilterGroup(nil), s.facets...)
}

// Get looks a feature up by its identifier or namespaced source id.
func (s *Store) Get(id string) (geo.Feature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.features {
		if f.Matches(id) {
			return f, true
		}
	}
	return geo.Feature{}, false
}

// ReplaceByID swaps exactly one feature, matched by identity, and rebuilds
// the facet index. Other list members are never touched.
func (s *Store) ReplaceByID(f geo.Feature) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.features {
		if s.features[i].Matches(f.ID) || (f.Props.SourceID != "" && s.features[i].Matches(f.Props.SourceID)) {
			s.features[i] = f
			s.facets = index.Build(s.features)
			return true
		}
	}
	return false
}

// Enrich augments one feature and stores the result. Concurrent requests
// for the same identifier share one in-flight enrichment.
func (s *Store) Enrich(ctx context.Context, id string) (geo.Feature, error) {
	f, ok := s.Get(id)
	if !ok {
		return geo.Feature{}, ErrNotFound
	}
	if s.enricher == nil {
		return geo.Feature{}, errors.New("enrichment not configured")
	}

	key := f.ID
	if key == "" {
		key = f.Props.SourceID
	}
	if key == "" {
		key = id
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		enriched := s.enricher.Enrich(ctx, f)
		s.ReplaceByID(enriched)
		return enriched, nil
	})
	if err != nil {
		return geo.Feature{}, err
	}
	return v.(geo.Feature), nil
}
