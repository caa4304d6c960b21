package ackwatch

import "time"

// Option configures an AckStrategy with optional dependencies.
type Option func(*strategyOptions)

// strategyOptions holds optional AckStrategy configuration.
type strategyOptions struct {
	logger  Logger
	metrics MetricsCollector
	clock   func() time.Time
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewAckStrategy
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	strategy, err := ackwatch.NewAckStrategy(&cfg, aborter, ackwatch.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *strategyOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewAckStrategy
//
// Example:
//
//	collector := ackwatch.NewPrometheusMetrics(nil, "broker")
//	strategy, err := ackwatch.NewAckStrategy(&cfg, aborter, ackwatch.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *strategyOptions) {
		o.metrics = metrics
	}
}

// WithClock sets the time source used for ack-age computation.
//
// Defaults to time.Now. Intended for tests that need deterministic ack ages
// without sleeping.
//
// Parameters:
//   - clock: Function returning the current time
//
// Returns:
//   - Option: Functional option for NewAckStrategy
func WithClock(clock func() time.Time) Option {
	return func(o *strategyOptions) {
		o.clock = clock
	}
}
