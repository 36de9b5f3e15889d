package processor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/fortmap/fortmap/internal/geo"
)

// overpassElement mirrors one entry of the elements-shaped export.
type overpassElement struct {
	Type string            `json:"type"` // node, way or relation
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat,omitempty"`
	Lon  *float64          `json:"lon,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// typeVocabulary maps fortification keywords to display labels. Scan order
// puts the longer keywords first so "fortress" is not shadowed by "fort".
var typeVocabulary = []struct {
	Match   string
	Display string
}{
	{"fortification", "Fortification"},
	{"fortress", "Fortress"},
	{"chateau", "Château"},
	{"citadel", "Citadel"},
	{"bastion", "Bastion"},
	{"battery", "Battery"},
	{"mansion", "Mansion"},
	{"castle", "Castle"},
	{"bunker", "Bunker"},
	{"palace", "Palace"},
	{"tower", "Tower"},
	{"fort", "Fort"},
}

// defenceKeys mark a feature as a fortification by mere presence.
var defenceKeys = []string{"defence", "defense", "defensive_works"}

// fromElements converts the elements shape. Nodes with coordinates become
// Point features; ways and relations have no resolvable geometry here and
// are given the [0,0] placeholder, which the final filter drops.
func fromElements(raw json.RawMessage) ([]geo.Feature, error) {
	var elements []overpassElement
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, err
	}

	features := make([]geo.Feature, 0, len(elements))
	for _, el := range elements {
		if !isFortification(el.Tags) {
			continue
		}

		f := geo.Feature{
			ID:       strconv.FormatInt(el.ID, 10),
			Geometry: orb.Point{0, 0},
			Props:    geo.PropsFromTags(el.Tags),
		}
		if el.Lat != nil && el.Lon != nil {
			f.Geometry = orb.Point{*el.Lon, *el.Lat}
		}
		f.Props.SourceID = fmt.Sprintf("%s/%d", el.Type, el.ID)
		if f.Props.DisplayType == "" {
			f.Props.DisplayType = displayType(el.Tags)
		}

		features = append(features, f)
	}

	return geo.DropDegenerate(features), nil
}

// isFortification applies the retention rule: a historic value containing a
// vocabulary keyword, a bunker/fortress military value, or a defence key.
func isFortification(tags map[string]string) bool {
	if len(tags) == 0 {
		return false
	}

	if historic := strings.ToLower(tags["historic"]); historic != "" {
		for _, entry := range typeVocabulary {
			if strings.Contains(historic, entry.Match) {
				return true
			}
		}
	}

	switch strings.ToLower(tags["military"]) {
	case "bunker", "fortress":
		return true
	}

	for _, key := range defenceKeys {
		if _, ok := tags[key]; ok {
			return true
		}
	}
	return false
}

// displayType derives a best-effort label: first vocabulary hit against the
// historic value, then the raw historic value, then the military class.
func displayType(tags map[string]string) string {
	historic := tags["historic"]
	lower := strings.ToLower(historic)
	for _, entry := range typeVocabulary {
		if strings.Contains(lower, entry.Match) {
			return entry.Display
		}
	}
	if historic != "" {
		return historic
	}

	switch strings.ToLower(tags["military"]) {
	case "bunker":
		return "Bunker"
	case "fortress":
		return "Fortress"
	}
	return ""
}
