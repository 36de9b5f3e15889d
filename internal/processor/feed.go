// Package processor handles fetching and normalization of feature feeds.
package processor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fortmap/fortmap/internal/geo"
)

// ErrUnrecognizedFormat is returned when the feed parses as JSON but matches
// neither the feature-collection nor the elements shape. A retry with the
// same resource will not help, but is permitted.
var ErrUnrecognizedFormat = errors.New("unrecognized feed format")

// Load reads the feed from a URL or a local file and normalizes it.
func Load(client *http.Client, src string) ([]geo.Feature, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return Fetch(client, src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	return Normalize(data)
}

// Fetch downloads the feed and normalizes it. Transport and non-200 status
// failures are surfaced unchanged so callers can offer a retry.
func Fetch(client *http.Client, url string) ([]geo.Feature, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return Normalize(data)
}

// Normalize detects which of the two supported wire shapes the document is
// and converts it into the canonical feature list. Placeholder geometries
// never survive normalization.
func Normalize(data []byte) ([]geo.Feature, error) {
	var probe struct {
		Type     string          `json:"type"`
		Features json.RawMessage `json:"features"`
		Elements json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch {
	case probe.Type == "FeatureCollection" && probe.Features != nil:
		return fromCollection(data)
	case probe.Elements != nil:
		return fromElements(probe.Elements)
	}
	return nil, ErrUnrecognizedFormat
}
