package metrics

import "github.com/arloliu/ackwatch/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	collector := metrics.NewNop()
//	strategy, err := ackwatch.NewAckStrategy(&cfg, aborter, ackwatch.WithMetrics(collector))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// MonitorMetrics implementation

// RecordCycleDuration discards the cycle duration metric.
func (n *NopMetrics) RecordCycleDuration(_ /* duration */ float64) {
	// No-op
}

// RecordSlowConsumerDetected discards the detection counter.
func (n *NopMetrics) RecordSlowConsumerDetected() {
	// No-op
}

// RecordSlowConsumerRecovered discards the recovery counter.
func (n *NopMetrics) RecordSlowConsumerRecovered() {
	// No-op
}

// SetTrackedSlowConsumers discards the tracked slow consumers gauge.
func (n *NopMetrics) SetTrackedSlowConsumers(_ /* count */ int) {
	// No-op
}

// SetTrackedDestinations discards the tracked destinations gauge.
func (n *NopMetrics) SetTrackedDestinations(_ /* count */ int) {
	// No-op
}

// RecordDestinationPruned discards the pruned destination counter.
func (n *NopMetrics) RecordDestinationPruned() {
	// No-op
}

// AbortMetrics implementation

// RecordConsumersAborted discards the aborted consumers counter.
func (n *NopMetrics) RecordConsumersAborted(_ /* count */ int) {
	// No-op
}
