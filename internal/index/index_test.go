package index

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"

	"github.com/fortmap/fortmap/internal/geo"
)

func feature(props geo.Properties) geo.Feature {
	return geo.Feature{Geometry: orb.Point{1, 1}, Props: props}
}

func TestBuildTypeGroupAlwaysPresent(t *testing.T) {
	groups := Build([]geo.Feature{feature(geo.Properties{Name: "A"})})

	if len(groups) != 1 {
		t.Fatalf("expected only the type group, got %d groups", len(groups))
	}
	if groups[0].ID != "type" {
		t.Fatalf("group id = %q, want type", groups[0].ID)
	}
	if len(groups[0].Options) != 1 || groups[0].Options[0].Value != UnknownType {
		t.Fatalf("options = %+v, want single Unknown", groups[0].Options)
	}
}

func TestBuildCountsAndOrdering(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{DisplayType: "Fort"}),
		feature(geo.Properties{DisplayType: "Castle"}),
		feature(geo.Properties{DisplayType: "Castle"}),
		feature(geo.Properties{DisplayType: "Tower"}),
		feature(geo.Properties{DisplayType: "Fort"}),
		feature(geo.Properties{DisplayType: "Castle"}),
	}

	groups := Build(features)
	opts := groups[0].Options

	want := []Option{
		{Value: "Castle", Label: "Castle", Count: 3},
		{Value: "Fort", Label: "Fort", Count: 2},
		{Value: "Tower", Label: "Tower", Count: 1},
	}
	if !reflect.DeepEqual(opts, want) {
		t.Fatalf("options = %+v, want %+v", opts, want)
	}
}

func TestBuildTieBreakIsFirstSeen(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{DisplayType: "Tower"}),
		feature(geo.Properties{DisplayType: "Bunker"}),
		feature(geo.Properties{DisplayType: "Tower"}),
		feature(geo.Properties{DisplayType: "Bunker"}),
	}

	opts := Build(features)[0].Options
	if opts[0].Value != "Tower" || opts[1].Value != "Bunker" {
		t.Fatalf("tie-break broke first-seen order: %+v", opts)
	}
}

func TestBuildConditionalGroups(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{DisplayType: "Castle", Period: "17e siècle", Region: "Occitanie"}),
		feature(geo.Properties{DisplayType: "Castle", Period: "17e siècle"}),
	}

	groups := Build(features)
	if len(groups) != 3 {
		t.Fatalf("expected type+period+region groups, got %d", len(groups))
	}
	if groups[1].ID != "period" || groups[1].Options[0].Count != 2 {
		t.Errorf("period group = %+v", groups[1])
	}
	if groups[2].ID != "region" || groups[2].Options[0].Count != 1 {
		t.Errorf("region group = %+v", groups[2])
	}
}

func TestBuildDistinctCasingsStayDistinct(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{DisplayType: "castle"}),
		feature(geo.Properties{DisplayType: "Castle"}),
	}

	opts := Build(features)[0].Options
	if len(opts) != 2 {
		t.Fatalf("casings folded together: %+v", opts)
	}
}

func TestBuildIdempotent(t *testing.T) {
	features := []geo.Feature{
		feature(geo.Properties{DisplayType: "Fort", Period: "1700", Region: "Bretagne"}),
		feature(geo.Properties{DisplayType: "Castle", Period: "1700"}),
		feature(geo.Properties{Name: "nameless type"}),
	}

	first := Build(features)
	second := Build(features)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Build is not idempotent:\n%+v\n%+v", first, second)
	}
}
