// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string     `yaml:"attribution,omitempty"`
	Feed        Feed       `yaml:"feed"`
	Enrichment  Enrichment `yaml:"enrichment,omitempty"`
}

// Feed points at the primary feature feed: either a remote URL or a local
// file previously written by the loader. URL wins when both are set.
type Feed struct {
	URL  string `yaml:"url,omitempty"`
	Path string `yaml:"path,omitempty"`
}

// Source returns the effective feed location.
func (f Feed) Source() string {
	if f.URL != "" {
		return f.URL
	}
	return f.Path
}

// Enrichment configures the external lookup endpoints. Endpoints are plain
// API roots so tests can point them at local servers.
type Enrichment struct {
	CommonsAPI    string `yaml:"commons_api,omitempty"`
	WikidataAPI   string `yaml:"wikidata_api,omitempty"`
	WikipediaBase string `yaml:"wikipedia_base,omitempty"` // pattern with %s for the language

	// TTL is the freshness window; re-enrichment within it is skipped.
	TTL string `yaml:"ttl,omitempty"`

	// FallbackImages are substituted when the image search yields nothing.
	// Illustrative only, not guaranteed to depict the feature.
	FallbackImages []string `yaml:"fallback_images,omitempty"`
}

// Defaults for the public Wikimedia endpoints.
const (
	DefaultCommonsAPI    = "https://commons.wikimedia.org/w/api.php"
	DefaultWikidataAPI   = "https://www.wikidata.org/w/api.php"
	DefaultWikipediaBase = "https://%s.wikipedia.org"
	DefaultTTL           = 24 * time.Hour
)

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Feed.Source() == "" {
		return nil, fmt.Errorf("config %s: feed.url or feed.path required", path)
	}

	if cfg.Enrichment.CommonsAPI == "" {
		cfg.Enrichment.CommonsAPI = DefaultCommonsAPI
	}
	if cfg.Enrichment.WikidataAPI == "" {
		cfg.Enrichment.WikidataAPI = DefaultWikidataAPI
	}
	if cfg.Enrichment.WikipediaBase == "" {
		cfg.Enrichment.WikipediaBase = DefaultWikipediaBase
	}

	return &cfg, nil
}

// FreshnessTTL parses the configured freshness window, defaulting to 24h.
func (e Enrichment) FreshnessTTL() time.Duration {
	if e.TTL == "" {
		return DefaultTTL
	}
	d, err := time.ParseDuration(e.TTL)
	if err != nil || d <= 0 {
		return DefaultTTL
	}
	return d
}
