// Package httpapi exposes manifest, policy, and URI validation over HTTP
// for editor integrations and CI systems that prefer a long-lived service
// to repeated CLI invocations.
package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the validation service.
type Metrics struct {
	ManifestValidations   *prometheus.CounterVec
	ExpressionValidations *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ManifestValidations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jsonagents",
				Name:      "manifest_validations_total",
				Help:      "Total manifest validations served",
			},
			[]string{"result"}, // result=valid/invalid
		),
		ExpressionValidations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jsonagents",
				Name:      "expression_validations_total",
				Help:      "Total policy and URI validations served",
			},
			[]string{"kind", "result"}, // kind=policy/uri
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jsonagents",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

func resultLabel(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
