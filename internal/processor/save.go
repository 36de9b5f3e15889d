package processor

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/fortmap/fortmap/internal/geo"
)

// Run fetches and normalizes the feed, writing the canonical collection to
// <destDir>/features.geojson. An existing file is kept unless force is set.
func Run(client *http.Client, src, destDir string, force bool) error {
	destFile := filepath.Join(destDir, "features.geojson")

	if _, err := os.Stat(destFile); err == nil && !force {
		log.Debug().Str("path", destFile).Msg("Features file exists, skipping")
		return nil
	}

	log.Info().Str("source", src).Msg("Processing feature feed")

	features, err := Load(client, src)
	if err != nil {
		return err
	}

	log.Info().Int("features", len(features)).Msg("Feed normalized")

	return Save(destDir, destFile, features)
}

// Save marshals the feature list as a GeoJSON collection and writes it to disk.
func Save(dir, path string, features []geo.Feature) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	collection := struct {
		Type     string        `json:"type"`
		Features []geo.Feature `json:"features"`
	}{
		Type:     "FeatureCollection",
		Features: features,
	}

	return json.NewEncoder(f).Encode(collection)
}
