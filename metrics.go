package ackwatch

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/ackwatch/internal/metrics"
)

// NewPrometheusMetrics creates a Prometheus-backed metrics collector for use
// with WithMetrics.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "ackwatch" if empty)
//
// Returns:
//   - MetricsCollector: Collector exporting monitor and abort metrics
//
// Example:
//
//	collector := ackwatch.NewPrometheusMetrics(nil, "broker")
//	strategy, err := ackwatch.NewAckStrategy(&cfg, aborter, ackwatch.WithMetrics(collector))
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
