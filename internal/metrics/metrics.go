// Package metrics declares the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gerencia"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// Registros counts completed registrations by assigned role.
	Registros = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "registro",
		Name:      "total",
		Help:      "Completed registrations by initial role.",
	}, []string{"rol"})

	// ColisionesNombreUsuario counts registrations whose seed handle was taken.
	ColisionesNombreUsuario = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "registro",
		Name:      "handle_collisions_total",
		Help:      "Registrations that needed a numeric suffix on the handle.",
	})

	CacheEstadisticas = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "estadisticas_total",
		Help:      "Transaction statistics cache lookups by result.",
	}, []string{"result"})
)
