package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	passesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prism_search",
			Name:      "ranking_passes_total",
			Help:      "Ranking passes executed, by outcome status.",
		},
		[]string{"status"},
	)

	degradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prism_search",
			Name:      "degraded_passes_total",
			Help:      "Ranking passes that fell back to catalog order after a metadata fetch failure.",
		},
	)

	coalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prism_search",
			Name:      "coalesced_queries_total",
			Help:      "Queries superseded by a later query inside the debounce window.",
		},
	)
)
