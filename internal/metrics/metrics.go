// Package metrics exposes prometheus counters shared by the feed loader and
// the enrichment client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedLoads counts primary feed loads by outcome (ok, fetch_error,
	// bad_format).
	FeedLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fortmap_feed_loads_total",
		Help: "Primary feature feed load attempts by outcome",
	}, []string{"outcome"})

	// EnrichRequests counts per-feature enrichment invocations.
	EnrichRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fortmap_enrich_requests_total",
		Help: "Feature enrichment invocations",
	})

	// EnrichSkipped counts enrichments suppressed by the freshness window.
	EnrichSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fortmap_enrich_skipped_total",
		Help: "Enrichments skipped because the feature was still fresh",
	})

	// EnrichSourceFailures counts per-source lookup failures. These are
	// recovered locally and never surfaced to the caller.
	EnrichSourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fortmap_enrich_source_failures_total",
		Help: "Enrichment lookup failures by source",
	}, []string{"source"})
)
