// Package metrics defines the prometheus instrumentation for the chain
// planner. Collectors are grouped on a Metrics struct registered against an
// explicit registry, so tests and embedders get isolated instances instead of
// fighting over the global default.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the planner's collectors. A nil *Metrics disables
// instrumentation throughout the core.
type Metrics struct {
	CandidatesVisited prometheus.Counter
	SearchesTotal     *prometheus.CounterVec
	SearchDuration    prometheus.Histogram
	CatalogEntries    prometheus.Gauge
	PlansBuiltTotal   prometheus.Counter
}

// Search outcome label values.
const (
	OutcomeFound         = "found"
	OutcomeUnsatisfiable = "unsatisfiable"
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CandidatesVisited: factory.NewCounter(prometheus.CounterOpts{
			Name: "capchain_search_candidates_visited_total",
			Help: "Total number of candidate chains handed to the validator pipeline.",
		}),
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capchain_searches_total",
			Help: "Number of route searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "capchain_search_duration_seconds",
			Help:    "Time taken by a single route search.",
			Buckets: prometheus.DefBuckets,
		}),
		CatalogEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "capchain_catalog_entries",
			Help: "Number of stage descriptors in the published catalog.",
		}),
		PlansBuiltTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "capchain_plans_built_total",
			Help: "Number of completed route search batches.",
		}),
	}
}
