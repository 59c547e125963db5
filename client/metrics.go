package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "prism_client",
		Name:      "requests_total",
		Help:      "Catalog service calls by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsIrrecoverable(err):
		outcome = "irrecoverable"
	default:
		outcome = "error"
	}
	requestsTotal.WithLabelValues(operation, outcome).Inc()
}
