// Package geo holds the canonical feature model shared by the normalizer,
// the filter index and the enrichment client.
package geo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature represents a single fortification record: a Point or Polygon
// geometry plus a typed property bag.
type Feature struct {
	ID       string
	Geometry orb.Geometry
	Props    Properties
}

// Link is an external reference attached to a feature during enrichment.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Matches reports whether the given identifier refers to this feature,
// by its own ID or by the namespaced "@id" source identifier.
func (f Feature) Matches(id string) bool {
	if id == "" {
		return false
	}
	return f.ID == id || f.Props.SourceID == id
}

// MarshalJSON renders the feature as a standard GeoJSON feature with the
// property bag flattened back to its wire keys.
func (f Feature) MarshalJSON() ([]byte, error) {
	gf := geojson.NewFeature(f.Geometry)
	if f.ID != "" {
		gf.ID = f.ID
	}
	gf.Properties = geojson.Properties(f.Props.toMap())
	return gf.MarshalJSON()
}

// UnmarshalJSON parses a GeoJSON feature into the canonical model.
func (f *Feature) UnmarshalJSON(data []byte) error {
	gf, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return err
	}
	*f = FromGeoJSON(gf)
	return nil
}

// FromGeoJSON converts a decoded GeoJSON feature into the canonical model.
func FromGeoJSON(gf *geojson.Feature) Feature {
	f := Feature{
		Geometry: gf.Geometry,
		Props:    PropsFromMap(map[string]interface{}(gf.Properties)),
	}
	switch id := gf.ID.(type) {
	case string:
		f.ID = id
	case float64:
		f.ID = fmt.Sprintf("%.0f", id)
	case json.Number:
		f.ID = id.String()
	}
	if f.ID == "" {
		f.ID = f.Props.SourceID
	}
	return f
}

// Clone returns a deep copy; enrichment works on copies so the shared
// feature list is only ever touched through the store's replace call.
func (f Feature) Clone() Feature {
	out := f
	if f.Geometry != nil {
		out.Geometry = orb.Clone(f.Geometry)
	}
	out.Props = f.Props.Clone()
	return out
}

// Clone deep-copies the property bag including its overflow map.
func (p Properties) Clone() Properties {
	out := p
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.Links != nil {
		out.Links = append([]Link(nil), p.Links...)
	}
	if p.LastFetched != nil {
		t := *p.LastFetched
		out.LastFetched = &t
	}
	if p.Extra != nil {
		out.Extra = make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Fresh reports whether the feature was enriched within the given window.
func (p Properties) Fresh(ttl time.Duration, now time.Time) bool {
	return p.LastFetched != nil && now.Sub(*p.LastFetched) < ttl
}
