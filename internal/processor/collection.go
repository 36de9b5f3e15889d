package processor

import (
	"github.com/paulmach/orb/geojson"

	"github.com/fortmap/fortmap/internal/geo"
)

// fromCollection converts the feature-collection shape. The wire format is
// already canonical, so this is a pass-through into the in-memory model;
// the placeholder-geometry invariant still applies.
func fromCollection(data []byte) ([]geo.Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	features := make([]geo.Feature, 0, len(fc.Features))
	for _, gf := range fc.Features {
		if gf == nil || gf.Geometry == nil {
			continue
		}
		features = append(features, geo.FromGeoJSON(gf))
	}

	return geo.DropDegenerate(features), nil
}
