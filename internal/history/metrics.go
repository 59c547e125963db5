package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prism_history",
			Name:      "entries_recorded_total",
			Help:      "History entries recorded after confirmed metadata writes.",
		},
	)

	evictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prism_history",
			Name:      "entries_evicted_total",
			Help:      "Oldest history entries dropped to stay within the cap.",
		},
	)
)
