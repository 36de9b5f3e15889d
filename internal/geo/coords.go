package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Degenerate reports whether the feature carries the [0,0] placeholder
// geometry produced when raw input lacks resolvable coordinates. Such
// features never belong in the canonical set.
func (f Feature) Degenerate() bool {
	if f.Geometry == nil {
		return true
	}
	if p, ok := f.Geometry.(orb.Point); ok {
		return p.Lon() == 0 && p.Lat() == 0
	}
	return false
}

// CoordKey renders a "lat, lon" string for the feature, used as the last
// resort search key during image lookup. Polygons use their bound center.
func (f Feature) CoordKey() string {
	var p orb.Point
	switch g := f.Geometry.(type) {
	case orb.Point:
		p = g
	default:
		if g == nil {
			return ""
		}
		p = g.Bound().Center()
	}
	return fmt.Sprintf("%.5f, %.5f", p.Lat(), p.Lon())
}

// DropDegenerate filters placeholder geometries out of a feature list
// in place order.
func DropDegenerate(features []Feature) []Feature {
	out := features[:0]
	for _, f := range features {
		if f.Degenerate() {
			continue
		}
		out = append(out, f)
	}
	return out
}
