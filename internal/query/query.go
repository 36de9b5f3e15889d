// Package query evaluates free-text search and facet selections against the
// canonical feature list.
package query

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fortmap/fortmap/internal/geo"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold normalizes text for matching: canonical decomposition, combining
// marks stripped, lowercased and trimmed. "Château" and "chateau" fold to
// the same string, which makes the search accent-insensitive.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// Evaluate computes the visible subset: named features whose folded name or
// address contains the folded term, intersected with every active facet.
// Original relative order is preserved. Unknown facet ids are ignored.
func Evaluate(features []geo.Feature, term string, active map[string]string) []geo.Feature {
	folded := Fold(term)

	out := make([]geo.Feature, 0, len(features))
	for _, f := range features {
		// Unnamed features never appear, even in the default view.
		if f.Props.ResolvedName() == "" {
			continue
		}
		if folded != "" && !matchText(f, folded) {
			continue
		}
		if !matchFacets(f, active) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func matchText(f geo.Feature, folded string) bool {
	if strings.Contains(Fold(f.Props.ResolvedName()), folded) {
		return true
	}
	if addr := f.Props.ResolvedAddress(); addr != "" {
		return strings.Contains(Fold(addr), folded)
	}
	return false
}

func matchFacets(f geo.Feature, active map[string]string) bool {
	for id, want := range active {
		if want == "" {
			continue
		}
		switch id {
		case "type":
			if f.Props.ResolvedType() != want {
				return false
			}
		case "period":
			if f.Props.Period != want {
				return false
			}
		case "region":
			if f.Props.Region != want {
				return false
			}
		}
	}
	return true
}

// SortByName orders a result set alphabetically on the folded name, for
// list-style views that re-sort the evaluator's output.
func SortByName(features []geo.Feature) {
	sort.SliceStable(features, func(i, j int) bool {
		return Fold(features[i].Props.ResolvedName()) < Fold(features[j].Props.ResolvedName())
	})
}
