package geo

import (
	"fmt"
	"time"
)

// Wire keys for the typed property fields. The legacy tabular export uses
// abbreviated heritage-register names (deno, adrs, com, reg, scle, tico),
// the geographic export uses free-form tags; both flatten into one bag.
const (
	keyName        = "name"
	keyDeno        = "deno"
	keyAddress     = "address"
	keyAddrFull    = "addr:full"
	keyPlace       = "com"
	keyAddrCity    = "addr:city"
	keyHistoric    = "historic"
	keyMilitary    = "military"
	keyBuilding    = "building"
	keyTico        = "tico"
	keyDisplayType = "display_type"
	keyPeriod      = "period"
	keyScle        = "scle"
	keyRegion      = "region"
	keyReg         = "reg"
	keyStyle       = "style"
	keyWikipedia   = "wikipedia"
	keyWikidata    = "wikidata"
	keySourceID    = "@id"
	keyDescription = "description"
	keyImages      = "images"
	keyImageSource = "image_source"
	keyLinks       = "links"
	keyLastFetched = "last_fetched"
)

// Properties is the canonical property bag: the fields both source formats
// can populate, plus an overflow map for tags nothing downstream interprets.
type Properties struct {
	Name        string
	Deno        string // legacy denomination
	Address     string
	Place       string // legacy commune / addr:city
	Historic    string
	Military    string
	Building    string
	Tico        string // legacy courtesy-title classification
	DisplayType string
	Period      string
	Region      string
	Style       string
	Wikipedia   string // "language:Title" encyclopedia reference
	Wikidata    string // structured-entity identifier (Q-id)
	SourceID    string // "<kind>/<id>" from the elements export

	Description string
	Images      []string
	ImageSource string
	Links       []Link
	LastFetched *time.Time

	Extra map[string]string
}

// ResolvedName returns the display name, trying the primary name field
// then the legacy denomination.
func (p Properties) ResolvedName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Deno
}

// ResolvedAddress returns the address, falling back to the legacy place.
func (p Properties) ResolvedAddress() string {
	if p.Address != "" {
		return p.Address
	}
	return p.Place
}

// ResolvedType returns the classification label, first non-empty of
// display type, legacy tico, raw historic, building and military fields.
func (p Properties) ResolvedType() string {
	for _, v := range []string{p.DisplayType, p.Tico, p.Historic, p.Building, p.Military} {
		if v != "" {
			return v
		}
	}
	return ""
}

// PropsFromTags builds the property bag from a plain string tag mapping.
func PropsFromTags(tags map[string]string) Properties {
	m := make(map[string]interface{}, len(tags))
	for k, v := range tags {
		m[k] = v
	}
	return PropsFromMap(m)
}

// PropsFromMap builds the property bag from an open JSON property object,
// routing known wire keys to typed fields and the rest to Extra. Fields fed
// by two wire keys are resolved by a fixed key order, never by map order.
func PropsFromMap(m map[string]interface{}) Properties {
	var p Properties
	p.Address = firstKey(m, keyAddress, keyAddrFull)
	p.Place = firstKey(m, keyPlace, keyAddrCity)
	p.Period = firstKey(m, keyPeriod, keyScle)
	p.Region = firstKey(m, keyRegion, keyReg)

	for k, raw := range m {
		switch k {
		case keyName:
			p.Name = str(raw)
		case keyDeno:
			p.Deno = str(raw)
		case keyAddress, keyAddrFull, keyPlace, keyAddrCity,
			keyPeriod, keyScle, keyRegion, keyReg:
			// resolved above in chain order
		case keyHistoric:
			p.Historic = str(raw)
		case keyMilitary:
			p.Military = str(raw)
		case keyBuilding:
			p.Building = str(raw)
		case keyTico:
			p.Tico = str(raw)
		case keyDisplayType:
			p.DisplayType = str(raw)
		case keyStyle:
			p.Style = str(raw)
		case keyWikipedia:
			p.Wikipedia = str(raw)
		case keyWikidata:
			p.Wikidata = str(raw)
		case keySourceID:
			p.SourceID = str(raw)
		case keyDescription:
			p.Description = str(raw)
		case keyImageSource:
			p.ImageSource = str(raw)
		case keyImages:
			p.Images = strSlice(raw)
		case keyLinks:
			p.Links = linkSlice(raw)
		case keyLastFetched:
			if t, err := time.Parse(time.RFC3339, str(raw)); err == nil {
				p.LastFetched = &t
			}
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]string)
			}
			p.Extra[k] = str(raw)
		}
	}
	return p
}

// toMap flattens the bag back into wire form, omitting empty fields.
func (p Properties) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(p.Extra)+8)
	for k, v := range p.Extra {
		m[k] = v
	}
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put(keyName, p.Name)
	put(keyDeno, p.Deno)
	put(keyAddress, p.Address)
	put(keyPlace, p.Place)
	put(keyHistoric, p.Historic)
	put(keyMilitary, p.Military)
	put(keyBuilding, p.Building)
	put(keyTico, p.Tico)
	put(keyDisplayType, p.DisplayType)
	put(keyPeriod, p.Period)
	put(keyRegion, p.Region)
	put(keyStyle, p.Style)
	put(keyWikipedia, p.Wikipedia)
	put(keyWikidata, p.Wikidata)
	put(keySourceID, p.SourceID)
	put(keyDescription, p.Description)
	put(keyImageSource, p.ImageSource)
	if len(p.Images) > 0 {
		m[keyImages] = p.Images
	}
	if len(p.Links) > 0 {
		m[keyLinks] = p.Links
	}
	if p.LastFetched != nil {
		m[keyLastFetched] = p.LastFetched.Format(time.RFC3339)
	}
	return m
}

// firstKey returns the value of the first key that is present and non-empty.
func firstKey(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v := str(m[k]); v != "" {
			return v
		}
	}
	return ""
}

func str(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		if s {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func strSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		if ss, ok := v.([]string); ok {
			return append([]string(nil), ss...)
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s := str(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func linkSlice(v interface{}) []Link {
	raw, ok := v.([]interface{})
	if !ok {
		if ls, ok := v.([]Link); ok {
			return append([]Link(nil), ls...)
		}
		return nil
	}
	out := make([]Link, 0, len(raw))
	for _, e := range raw {
		obj, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		l := Link{Title: str(obj["title"]), URL: str(obj["url"])}
		if l.URL != "" {
			out = append(out, l)
		}
	}
	return out
}
