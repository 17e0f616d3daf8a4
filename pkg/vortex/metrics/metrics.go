// Package metrics exposes the server's pool and request observability
// through prometheus/client_golang, following the collector shape
// shockwave's buffer pool used for its own Prometheus integration.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vortex"

var (
	// RequestsTotal counts completed requests by method and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of requests dispatched to a handler.",
		},
		[]string{"method", "status"},
	)

	// RequestDuration observes handler latency in seconds.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Handler latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// ConnectionsRejected counts connections dropped at admission
	// because the pool was at capacity (spec's "drop, never queue").
	ConnectionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "connections_rejected_total",
			Help:      "Total connections dropped because the connection pool was at capacity.",
		},
	)

	// TimeoutVerdicts counts each timing.Verdict the timeout engine returns.
	TimeoutVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timing",
			Name:      "verdicts_total",
			Help:      "Total timing.Evaluate verdicts, labeled by verdict name.",
		},
		[]string{"verdict"},
	)
)
