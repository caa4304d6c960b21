package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNopMetrics_AllMethods(t *testing.T) {
	m := NewNop()

	// Must not panic.
	m.RecordCycleDuration(0.1)
	m.RecordSlowConsumerDetected()
	m.RecordSlowConsumerRecovered()
	m.SetTrackedSlowConsumers(3)
	m.SetTrackedDestinations(2)
	m.RecordDestinationPruned()
	m.RecordConsumersAborted(5)
}

func TestPrometheusCollector_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "testns")

	m.RecordSlowConsumerDetected()
	m.RecordSlowConsumerDetected()
	m.RecordSlowConsumerRecovered()
	m.RecordConsumersAborted(3)
	m.SetTrackedSlowConsumers(4)
	m.SetTrackedDestinations(2)
	m.RecordDestinationPruned()
	m.RecordCycleDuration(0.002)

	require.Equal(t, 2.0, testutil.ToFloat64(m.detected))
	require.Equal(t, 1.0, testutil.ToFloat64(m.recovered))
	require.Equal(t, 3.0, testutil.ToFloat64(m.aborted))
	require.Equal(t, 1.0, testutil.ToFloat64(m.destinationsPruned))
	require.Equal(t, 4.0, testutil.ToFloat64(m.trackedSlow))
	require.Equal(t, 2.0, testutil.ToFloat64(m.trackedDestinations))
}

func TestPrometheusCollector_DefaultNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "")

	require.Equal(t, "ackwatch", m.namespace)
}
