package ackwatch

import (
	"fmt"
	"time"
)

// Default configuration values, matching the conventional broker policy of
// "a consumer that has not acked a message for 30 seconds is slow".
const (
	// DefaultCheckPeriod is the default interval between monitor cycles.
	DefaultCheckPeriod = 30 * time.Second

	// DefaultMaxTimeSinceLastAck is the default ack-age ceiling before a
	// subscription is considered slow.
	DefaultMaxTimeSinceLastAck = 30 * time.Second

	// DefaultMaxSlowDuration is the default cumulative slow time before a
	// tracked subscription qualifies for abort.
	DefaultMaxSlowDuration = 30 * time.Second
)

// Config is the configuration for the AckStrategy.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h"
// when unmarshaled from YAML.
//
// Every threshold and flag can also be changed at runtime through the
// strategy's setters; the monitor picks up changes on its next cycle.
type Config struct {
	// Name identifies this strategy instance in log output. A unique
	// suffix is appended automatically when left empty.
	Name string `yaml:"name"`

	// CheckPeriod is the interval between monitor cycles. Must be > 0.
	CheckPeriod time.Duration `yaml:"checkPeriod"`

	// MaxTimeSinceLastAck is the ack-age ceiling: a subscription whose
	// last acknowledgment is older than this is judged slow.
	//
	// A negative value disables the strategy entirely (cycles become
	// no-ops). Zero is NOT disabled: it means any subscription with a
	// nonzero ack age is slow.
	MaxTimeSinceLastAck time.Duration `yaml:"maxTimeSinceLastAck"`

	// MaxSlowDuration is the duration-based escalation ceiling: a tracked
	// subscription qualifies for abort once markCount*CheckPeriod exceeds
	// it. A value <= 0 disables duration-based escalation.
	MaxSlowDuration time.Duration `yaml:"maxSlowDuration"`

	// MaxSlowCount is the count-based escalation ceiling: a tracked
	// subscription qualifies for abort once it has been re-confirmed slow
	// more than MaxSlowCount times. A value <= 0 disables count-based
	// escalation.
	MaxSlowCount int `yaml:"maxSlowCount"`

	// AbortConnection requests that the abort action tear down the whole
	// connection backing a qualifying subscription, not just the
	// subscription itself.
	AbortConnection bool `yaml:"abortConnection"`

	// IgnoreIdleConsumers excludes subscriptions with an empty dispatch
	// queue from slowness checks: a subscription with nothing pending
	// cannot fairly be judged slow on ack time. When false, idle
	// subscriptions age like any other, which evicts consumers that have
	// not received messages for MaxTimeSinceLastAck.
	//
	// DefaultConfig enables this.
	IgnoreIdleConsumers bool `yaml:"ignoreIdleConsumers"`

	// IgnoreNetworkConsumers reports the configured intent to exclude
	// peer-broker subscriptions from slowness checks.
	//
	// Note: the update pass currently strips network subscriptions from
	// tracking unconditionally, matching the reference broker behavior;
	// this flag is retained on the configuration surface for
	// compatibility. DefaultConfig enables it.
	IgnoreNetworkConsumers bool `yaml:"ignoreNetworkConsumers"`
}

// DefaultConfig returns a configuration with production defaults.
//
// Returns:
//   - Config: 30s check period and ack ceiling, 30s max slow duration,
//     count-based escalation disabled, idle and network filters enabled
func DefaultConfig() Config {
	return Config{
		CheckPeriod:            DefaultCheckPeriod,
		MaxTimeSinceLastAck:    DefaultMaxTimeSinceLastAck,
		MaxSlowDuration:        DefaultMaxSlowDuration,
		MaxSlowCount:           0,
		AbortConnection:        false,
		IgnoreIdleConsumers:    true,
		IgnoreNetworkConsumers: true,
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Timings are much shorter than production defaults so escalation can be
// observed without multi-second waits. Use DefaultConfig() for production
// deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.CheckPeriod = 50 * time.Millisecond
	cfg.MaxTimeSinceLastAck = 100 * time.Millisecond
	cfg.MaxSlowDuration = 200 * time.Millisecond

	return cfg
}

// SetDefaults fills in missing configuration values with defaults.
//
// Only CheckPeriod and Name are defaulted: zero is a meaningful value for
// MaxTimeSinceLastAck (any nonzero ack age is slow) and for the escalation
// ceilings (dimension disabled), so those are left untouched.
//
// Parameters:
//   - cfg: Configuration to fill in (modified in place)
func SetDefaults(cfg *Config) {
	if cfg.CheckPeriod == 0 {
		cfg.CheckPeriod = DefaultCheckPeriod
	}
	if cfg.Name == "" {
		cfg.Name = "ack-strategy-" + shortID()
	}
}

// Validate checks configuration constraints and returns an error for invalid values.
//
// Hard Validation Rules:
//   - CheckPeriod > 0 (the monitor must run on a real period)
//
// Degenerate threshold values are policy, not errors: a negative
// MaxTimeSinceLastAck disables the strategy and non-positive escalation
// ceilings disable their dimension. ValidateWithWarnings surfaces those.
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.CheckPeriod <= 0 {
		return fmt.Errorf("%w: CheckPeriod must be > 0, got %v", ErrInvalidConfig, cfg.CheckPeriod)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for degenerate
// or surprising values.
//
// This is called after Validate() in NewAckStrategy() to provide operator
// guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.MaxTimeSinceLastAck < 0 {
		logger.Warn(
			"MaxTimeSinceLastAck is negative, strategy is disabled",
			"maxTimeSinceLastAck", cfg.MaxTimeSinceLastAck,
		)
	}

	if cfg.MaxSlowDuration <= 0 && cfg.MaxSlowCount <= 0 {
		logger.Warn(
			"both escalation ceilings are disabled, slow subscriptions will be tracked but never aborted",
			"maxSlowDuration", cfg.MaxSlowDuration,
			"maxSlowCount", cfg.MaxSlowCount,
		)
	}

	if cfg.MaxSlowDuration > 0 && cfg.MaxSlowDuration < cfg.CheckPeriod {
		logger.Warn(
			"MaxSlowDuration is below CheckPeriod, subscriptions will abort after a single slow cycle",
			"maxSlowDuration", cfg.MaxSlowDuration,
			"checkPeriod", cfg.CheckPeriod,
		)
	}
}
