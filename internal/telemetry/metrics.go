package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statsRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sysdash_stats_requests_total",
			Help: "Total number of system stats snapshots assembled",
		},
	)

	statsCollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sysdash_stats_collection_duration_seconds",
			Help:    "Time taken to refresh the session and assemble one snapshot",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)
