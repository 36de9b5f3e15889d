// Package index derives categorical filter facets from the canonical
// feature list.
package index

import (
	"sort"

	"github.com/fortmap/fortmap/internal/geo"
)

// Option is one selectable facet value with its precomputed count. Counts
// reflect unfiltered totals and are not recomputed as filters combine, so
// the UI stays stable while the user toggles them.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FilterGroup is one categorical dimension with its options sorted by
// descending count.
type FilterGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// UnknownType labels features with no resolvable classification.
const UnknownType = "Unknown"

// Build scans the features and produces the facet groups. The type group is
// always present; period and region appear only when observed at least once.
// Values are counted verbatim, distinct casings stay distinct.
func Build(features []geo.Feature) []FilterGroup {
	types := newCounter()
	periods := newCounter()
	regions := newCounter()

	for _, f := range features {
		t := f.Props.ResolvedType()
		if t == "" {
			t = UnknownType
		}
		types.add(t)

		if f.Props.Period != "" {
			periods.add(f.Props.Period)
		}
		if f.Props.Region != "" {
			regions.add(f.Props.Region)
		}
	}

	groups := []FilterGroup{{ID: "type", Name: "Type", Options: types.options()}}
	if len(periods.order) > 0 {
		groups = append(groups, FilterGroup{ID: "period", Name: "Period", Options: periods.options()})
	}
	if len(regions.order) > 0 {
		groups = append(groups, FilterGroup{ID: "region", Name: "Region", Options: regions.options()})
	}
	return groups
}

// counter tallies distinct values while remembering first-seen order, the
// tie-break for equal counts.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(value string) {
	if _, seen := c.counts[value]; !seen {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

func (c *counter) options() []Option {
	opts := make([]Option, 0, len(c.order))
	for _, v := range c.order {
		opts = append(opts, Option{Value: v, Label: v, Count: c.counts[v]})
	}
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].Count > opts[j].Count
	})
	return opts
}
