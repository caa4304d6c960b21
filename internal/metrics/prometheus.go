package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/ackwatch/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	detected            prometheus.Counter
	recovered           prometheus.Counter
	aborted             prometheus.Counter
	destinationsPruned  prometheus.Counter
	trackedSlow         prometheus.Gauge
	trackedDestinations prometheus.Gauge
	cycleDuration       prometheus.Histogram
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "ackwatch" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "ackwatch"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.detected = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "slow_consumers_detected_total",
			Help:      "Total subscriptions newly judged slow.",
		})

		p.recovered = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "slow_consumers_recovered_total",
			Help:      "Total tracked subscriptions dropped from tracking without abort.",
		})

		p.aborted = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "consumers_aborted_total",
			Help:      "Total subscriptions handed to the abort action.",
		})

		p.destinationsPruned = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "destinations_pruned_total",
			Help:      "Total disposed destinations removed from the monitor.",
		})

		p.trackedSlow = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "tracked_slow_consumers",
			Help:      "Current number of tracked slow subscriptions.",
		})

		p.trackedDestinations = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "tracked_destinations",
			Help:      "Current number of monitored destinations.",
		})

		p.cycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "cycle_duration_seconds",
			Help:      "Observed monitor cycle durations in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		})

		p.reg.MustRegister(
			p.detected,
			p.recovered,
			p.aborted,
			p.destinationsPruned,
			p.trackedSlow,
			p.trackedDestinations,
			p.cycleDuration,
		)
	})
}

// RecordCycleDuration observes one monitor cycle duration.
func (p *PrometheusCollector) RecordCycleDuration(duration float64) {
	p.ensureRegistered()
	p.cycleDuration.Observe(duration)
}

// RecordSlowConsumerDetected increments the detection counter.
func (p *PrometheusCollector) RecordSlowConsumerDetected() {
	p.ensureRegistered()
	p.detected.Inc()
}

// RecordSlowConsumerRecovered increments the recovery counter.
func (p *PrometheusCollector) RecordSlowConsumerRecovered() {
	p.ensureRegistered()
	p.recovered.Inc()
}

// SetTrackedSlowConsumers sets the tracked slow consumers gauge.
func (p *PrometheusCollector) SetTrackedSlowConsumers(count int) {
	p.ensureRegistered()
	p.trackedSlow.Set(float64(count))
}

// SetTrackedDestinations sets the tracked destinations gauge.
func (p *PrometheusCollector) SetTrackedDestinations(count int) {
	p.ensureRegistered()
	p.trackedDestinations.Set(float64(count))
}

// RecordDestinationPruned increments the pruned destination counter.
func (p *PrometheusCollector) RecordDestinationPruned() {
	p.ensureRegistered()
	p.destinationsPruned.Inc()
}

// RecordConsumersAborted adds the batch size to the aborted counter.
func (p *PrometheusCollector) RecordConsumersAborted(count int) {
	p.ensureRegistered()
	p.aborted.Add(float64(count))
}
