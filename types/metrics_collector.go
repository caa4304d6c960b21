package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from the monitor cycle goroutine and must be
// thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	MonitorMetrics
	AbortMetrics
}

// MonitorMetrics defines metrics for the periodic monitoring cycle.
type MonitorMetrics interface {
	// RecordCycleDuration records the time taken by one monitor cycle.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordCycleDuration(duration float64)

	// RecordSlowConsumerDetected records a subscription newly judged slow.
	RecordSlowConsumerDetected()

	// RecordSlowConsumerRecovered records a tracked subscription that
	// recovered (acked within the window, went idle, or was filtered out).
	RecordSlowConsumerRecovered()

	// SetTrackedSlowConsumers sets the current number of tracked slow
	// subscriptions (gauge metric).
	SetTrackedSlowConsumers(count int)

	// SetTrackedDestinations sets the current number of monitored
	// destinations (gauge metric).
	SetTrackedDestinations(count int)

	// RecordDestinationPruned records a disposed destination removed from
	// the monitor.
	RecordDestinationPruned()
}

// AbortMetrics defines metrics for abort escalation.
type AbortMetrics interface {
	// RecordConsumersAborted records subscriptions handed to the abort
	// action in one cycle.
	//
	// Parameters:
	//   - count: Number of subscriptions in the abort batch
	RecordConsumersAborted(count int)
}
