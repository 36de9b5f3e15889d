package query

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/fortmap/fortmap/internal/geo"
)

func feature(props geo.Properties) geo.Feature {
	return geo.Feature{Geometry: orb.Point{1, 1}, Props: props}
}

func names(features []geo.Feature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, f.Props.ResolvedName())
	}
	return out
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Château", "chateau"},
		{"  Forêt  ", "foret"},
		{"CITADELLE", "citadelle"},
		{"déjà-vu", "deja-vu"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Fold(tc.in); got != tc.want {
			t.Errorf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEvaluateAccentInsensitive(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "Château de Vincennes"}),
		feature(geo.Properties{Name: "Fort de la Forêt"}),
	}

	// unaccented term matches accented name
	got := Evaluate(features, "chateau", nil)
	if len(got) != 1 || got[0].Props.Name != "Château de Vincennes" {
		t.Fatalf("chateau matched %v", names(got))
	}

	// accented term matches the same name
	got = Evaluate(features, "châTEAU", nil)
	if len(got) != 1 || got[0].Props.Name != "Château de Vincennes" {
		t.Fatalf("châTEAU matched %v", names(got))
	}

	// "foret" must match "Forêt"
	got = Evaluate(features, "foret", nil)
	if len(got) != 1 || got[0].Props.Name != "Fort de la Forêt" {
		t.Fatalf("foret matched %v", names(got))
	}
}

func TestEvaluateExcludesUnnamed(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "Fort Carré"}),
		feature(geo.Properties{Historic: "castle"}), // no name, no deno
		feature(geo.Properties{Deno: "donjon"}),     // legacy denomination counts as named
	}

	got := Evaluate(features, "", nil)
	if len(got) != 2 {
		t.Fatalf("default view = %v, want the two named features", names(got))
	}

	// exclusion also applies once a filter is active
	got = Evaluate(features, "", map[string]string{"type": "castle"})
	for _, f := range got {
		if f.Props.ResolvedName() == "" {
			t.Fatal("unnamed feature leaked through an active filter")
		}
	}
}

func TestEvaluateAddressMatch(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "Citadelle", Address: "Besançon"}),
		feature(geo.Properties{Name: "Bastion", Place: "Sète"}),
	}

	if got := Evaluate(features, "besancon", nil); len(got) != 1 || got[0].Props.Name != "Citadelle" {
		t.Fatalf("address match failed: %v", names(got))
	}
	// legacy place is the fallback address field
	if got := Evaluate(features, "sete", nil); len(got) != 1 || got[0].Props.Name != "Bastion" {
		t.Fatalf("place fallback match failed: %v", names(got))
	}
}

func TestEvaluateTypeFacetWithEmptySearch(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "A", DisplayType: "Castle"}),
		feature(geo.Properties{Name: "B", DisplayType: "Fort"}),
		feature(geo.Properties{Historic: "castle"}), // unnamed, must not appear
		feature(geo.Properties{Name: "C", Tico: "Castle"}),
	}

	got := Evaluate(features, "", map[string]string{"type": "Castle"})
	want := []string{"A", "C"}
	if len(got) != 2 || got[0].Props.Name != "A" || got[1].Props.Name != "C" {
		t.Fatalf("type facet = %v, want %v", names(got), want)
	}
}

func TestEvaluateFacetConjunction(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "A", DisplayType: "Castle", Period: "1600", Region: "Bretagne"}),
		feature(geo.Properties{Name: "B", DisplayType: "Castle", Period: "1700", Region: "Bretagne"}),
		feature(geo.Properties{Name: "C", DisplayType: "Fort", Period: "1600", Region: "Bretagne"}),
	}

	got := Evaluate(features, "", map[string]string{"type": "Castle", "period": "1600", "region": "Bretagne"})
	if len(got) != 1 || got[0].Props.Name != "A" {
		t.Fatalf("conjunction = %v, want [A]", names(got))
	}
}

func TestEvaluateUnknownFacetIgnored(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "A", DisplayType: "Castle"}),
	}

	got := Evaluate(features, "", map[string]string{"owner": "duke", "type": "Castle"})
	if len(got) != 1 {
		t.Fatalf("unknown facet must be treated as always-true, got %v", names(got))
	}
}

func TestEvaluateTypeExactEquality(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "A", DisplayType: "Castle"}),
		feature(geo.Properties{Name: "B", DisplayType: "castle"}),
	}

	got := Evaluate(features, "", map[string]string{"type": "Castle"})
	if len(got) != 1 || got[0].Props.Name != "A" {
		t.Fatalf("type equality must be exact: %v", names(got))
	}
}

func TestEvaluatePreservesOrder(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{Name: "Zitadelle"}),
		feature(geo.Properties{Name: "Alcazar"}),
		feature(geo.Properties{Name: "Kastell"}),
	}

	got := Evaluate(features, "", nil)
	want := []string{"Zitadelle", "Alcazar", "Kastell"}
	for i, n := range names(got) {
		if n != want[i] {
			t.Fatalf("order changed: %v", names(got))
		}
	}

	SortByName(got)
	if got[0].Props.Name != "Alcazar" {
		t.Fatalf("SortByName = %v", names(got))
	}
}
