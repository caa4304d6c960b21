package ackwatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/ackwatch/internal/logging"
	"github.com/arloliu/ackwatch/internal/metrics"
	"github.com/arloliu/ackwatch/internal/sched"
	"github.com/arloliu/ackwatch/types"
)

// AckStrategy aborts slow consumers based on the time elapsed since their
// last acknowledgment.
//
// On each cycle the strategy scans every subscription of every registered
// destination. A subscription whose ack age exceeds MaxTimeSinceLastAck gets
// a tracking entry; the entry accumulates evidence across cycles and the
// subscription is handed to the Aborter once either escalation ceiling
// (duration-based or count-based) is exceeded. Subscriptions that ack within
// the window, go idle, or originate from a peer-broker network link are
// dropped from tracking.
//
// RunCycle must not be invoked concurrently with itself; Start drives it from
// a single goroutine on CheckPeriod. Registration and all setters are safe to
// call concurrently with the running monitor.
type AckStrategy struct {
	aborter Aborter
	logger  Logger
	metrics MetricsCollector
	now     func() time.Time

	// mu guards cfg, destinations and runner. The slow-consumer map has its
	// own synchronization and is mutated only by the cycle goroutine.
	mu           sync.Mutex
	cfg          Config
	destinations []types.Destination
	runner       *sched.Runner

	slowConsumers *xsync.Map[string, *SlowConsumerEntry]
}

// Compile-time assertion that AckStrategy implements SlowConsumerStrategy.
var _ types.SlowConsumerStrategy = (*AckStrategy)(nil)

// NewAckStrategy creates a new ack-age based slow consumer strategy.
//
// Missing configuration values are filled with defaults and the result is
// validated. The aborter is required; logger, metrics and clock are optional
// and default to a nop logger, nop metrics and time.Now.
//
// Parameters:
//   - cfg: Strategy configuration (must be non-nil; defaulted and validated in place)
//   - aborter: Abort action invoked with qualifying subscriptions each cycle
//   - opts: Optional dependencies (WithLogger, WithMetrics, WithClock)
//
// Returns:
//   - *AckStrategy: Initialized strategy, not yet running
//   - error: ErrInvalidConfig, ErrAborterRequired, or a validation error
func NewAckStrategy(cfg *Config, aborter Aborter, opts ...Option) (*AckStrategy, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if aborter == nil {
		return nil, ErrAborterRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &strategyOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	clock := options.clock
	if clock == nil {
		clock = time.Now
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	return &AckStrategy{
		aborter:       aborter,
		logger:        loggerInstance,
		metrics:       metricsCollector,
		now:           clock,
		cfg:           *cfg,
		slowConsumers: xsync.NewMap[string, *SlowConsumerEntry](),
	}, nil
}

// Name returns the strategy's instance name used in log output.
func (s *AckStrategy) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.Name
}

// OnSlowConsumerEvent ignores broker-raised slow consumer events.
//
// This strategy derives slowness solely from ack age observed during its own
// periodic cycles.
func (s *AckStrategy) OnSlowConsumerEvent(_ types.ConnectionContext, sub types.Subscription) {
	s.logger.Debug("ignoring broker slow consumer event, only ack age is considered",
		"strategy", s.Name(), "subscription", sub.ID())
}

// AddDestination registers a destination for monitoring.
//
// Registration order is preserved for cycle iteration. No deduplication is
// performed; callers must not register the same destination twice.
//
// Parameters:
//   - d: Destination to monitor
func (s *AckStrategy) AddDestination(d types.Destination) {
	s.mu.Lock()
	s.destinations = append(s.destinations, d)
	count := len(s.destinations)
	s.mu.Unlock()

	s.metrics.SetTrackedDestinations(count)
}

// Start begins running monitor cycles on CheckPeriod.
//
// Idempotently guarded: a second Start while running returns
// ErrAlreadyStarted. The first cycle runs one CheckPeriod after Start.
//
// Parameters:
//   - ctx: Context for cancellation; the monitor stops when it is canceled
//
// Returns:
//   - error: ErrAlreadyStarted if already running
func (s *AckStrategy) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.runner != nil && s.runner.Running() {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	// A fresh runner per Start picks up the current CheckPeriod.
	s.runner = sched.New(s.cfg.Name, s.RunCycle, s.cfg.CheckPeriod, s.logger)
	checkPeriod := s.cfg.CheckPeriod

	// Starting does not block on cycles, so holding the lock here closes
	// the race between two concurrent Start calls.
	err := s.runner.Start(ctx)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, sched.ErrAlreadyStarted) {
			return ErrAlreadyStarted
		}

		return fmt.Errorf("failed to start slow consumer monitor: %w", err)
	}

	s.logger.Info("slow consumer monitor started", "strategy", s.Name(), "checkPeriod", checkPeriod)

	return nil
}

// Stop stops the periodic monitor and waits for an in-flight cycle to finish.
//
// The strategy holds no other resources; tracked state remains in place so a
// later Start resumes where the monitor left off.
//
// Returns:
//   - error: ErrNotStarted if the monitor is not running
func (s *AckStrategy) Stop() error {
	s.mu.Lock()
	runner := s.runner
	s.mu.Unlock()

	if runner == nil {
		return ErrNotStarted
	}

	if err := runner.Stop(); err != nil {
		if errors.Is(err, sched.ErrNotStarted) {
			return ErrNotStarted
		}

		return err
	}

	s.logger.Info("slow consumer monitor stopped", "strategy", s.Name())

	return nil
}

// RunCycle performs one monitoring pass: ages tracked entries, rescans every
// registered destination, prunes disposed destinations, and hands qualifying
// subscriptions to the abort action.
//
// Safe to call directly for embedders that drive the strategy from their own
// scheduler, as long as at most one invocation runs at a time.
func (s *AckStrategy) RunCycle() {
	cfg := s.configSnapshot()

	if cfg.MaxTimeSinceLastAck < 0 {
		// Negative is the "no limit" sentinel; zero is a valid (aggressive) ceiling.
		s.logger.Info("no ack limit set, slow consumer strategy has nothing to do", "strategy", cfg.Name)
		return
	}

	start := time.Now()

	if cfg.MaxSlowDuration > 0 {
		// Age every tracked entry before the rescan, including entries whose
		// subscription is not re-observed this cycle. An entry created later
		// in this same cycle stays one mark behind pre-existing entries;
		// that hysteresis matches the reference behavior and is kept.
		s.slowConsumers.Range(func(_ string, entry *SlowConsumerEntry) bool {
			entry.mark()
			return true
		})
	}

	var disposed []types.Destination

	for _, dest := range s.destinationsSnapshot() {
		if dest.IsDisposed() {
			disposed = append(disposed, dest)
			continue
		}

		s.updateSlowConsumers(cfg, dest.Consumers())
	}

	if len(disposed) > 0 {
		s.removeDestinations(disposed)
	}

	s.abortQualified(cfg)

	s.metrics.SetTrackedSlowConsumers(s.slowConsumers.Size())
	s.metrics.RecordCycleDuration(time.Since(start).Seconds())
}

// updateSlowConsumers runs the per-subscription update over one destination's
// snapshot. Exactly one of create/escalate/remove/no-op happens per
// subscription; the network and idle filters short-circuit before the
// ack-age test.
func (s *AckStrategy) updateSlowConsumers(cfg Config, subs []types.Subscription) {
	for _, sub := range subs {
		id := sub.ID()

		if sub.IsNetwork() {
			// Network subscriptions are stripped from tracking regardless of
			// the IgnoreNetworkConsumers setting: peer links ack on their own
			// schedule, so ack age is not a usable slowness signal for them.
			s.removeEntry(cfg, id, "network")
			continue
		}

		if cfg.IgnoreIdleConsumers && sub.DispatchedQueueSize() == 0 {
			// Nothing pending, so the subscription cannot fairly be judged
			// slow on ack time.
			s.removeEntry(cfg, id, "idle")
			continue
		}

		elapsed := s.now().Sub(sub.TimeOfLastMessageAck())

		if elapsed > cfg.MaxTimeSinceLastAck {
			entry, ok := s.slowConsumers.Load(id)
			if !ok {
				s.logger.Debug("subscription is now slow",
					"strategy", cfg.Name, "subscription", id, "ackAge", elapsed)
				s.slowConsumers.Store(id, newSlowConsumerEntry(sub))
				s.metrics.RecordSlowConsumerDetected()
			} else if cfg.MaxSlowCount > 0 {
				entry.slow()
			}
		} else {
			s.removeEntry(cfg, id, "recovered")
		}
	}
}

// removeEntry drops a tracking entry if one exists, logging the reason.
func (s *AckStrategy) removeEntry(cfg Config, id, reason string) {
	if _, ok := s.slowConsumers.LoadAndDelete(id); ok {
		s.logger.Info("subscription is no longer slow",
			"strategy", cfg.Name, "subscription", id, "reason", reason)
		s.metrics.RecordSlowConsumerRecovered()
	}
}

// abortQualified partitions tracked entries into still-probationary and
// abort-qualified, removes the qualified ones from tracking, and hands them
// to the abort action as a batch. A ceiling <= 0 never contributes to
// qualification.
func (s *AckStrategy) abortQualified(cfg Config) {
	toAbort := make(map[string]*SlowConsumerEntry)

	s.slowConsumers.Range(func(id string, entry *SlowConsumerEntry) bool {
		slowDuration := time.Duration(entry.MarkCount()) * cfg.CheckPeriod

		qualified := (cfg.MaxSlowDuration > 0 && slowDuration > cfg.MaxSlowDuration) ||
			(cfg.MaxSlowCount > 0 && entry.SlowCount() > cfg.MaxSlowCount)
		if !qualified {
			s.logger.Debug("not yet time to abort subscription",
				"strategy", cfg.Name, "subscription", id,
				"slowDuration", slowDuration, "slowCount", entry.SlowCount())
			return true
		}

		s.logger.Debug("removing subscription from slow list",
			"strategy", cfg.Name, "subscription", id,
			"slowDuration", slowDuration, "slowCount", entry.SlowCount())

		toAbort[id] = entry
		s.slowConsumers.Delete(id)

		return true
	})

	if len(toAbort) > 0 {
		s.logger.Info("aborting slow subscriptions",
			"strategy", cfg.Name, "count", len(toAbort), "abortConnection", cfg.AbortConnection)
		s.metrics.RecordConsumersAborted(len(toAbort))
	}

	// The abort action tolerates an empty batch; it is invoked every cycle
	// so implementations can use the call as a cycle marker.
	s.aborter.Abort(toAbort, cfg.AbortConnection)
}

// removeDestinations prunes disposed destinations permanently, preserving the
// registration order of the rest.
func (s *AckStrategy) removeDestinations(disposed []types.Destination) {
	s.mu.Lock()
	s.destinations = slices.DeleteFunc(s.destinations, func(d types.Destination) bool {
		return slices.Contains(disposed, d)
	})
	count := len(s.destinations)
	s.mu.Unlock()

	for range disposed {
		s.metrics.RecordDestinationPruned()
	}
	s.metrics.SetTrackedDestinations(count)

	s.logger.Info("pruned disposed destinations",
		"strategy", s.Name(), "pruned", len(disposed), "remaining", count)
}

func (s *AckStrategy) configSnapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

func (s *AckStrategy) destinationsSnapshot() []types.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.destinations)
}

// CheckPeriod returns the interval between monitor cycles.
func (s *AckStrategy) CheckPeriod() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.CheckPeriod
}

// SetCheckPeriod sets the interval between monitor cycles.
//
// Escalation math picks up the new value on the next cycle. The tick rate of
// an already running monitor changes on the next Start after a Stop.
func (s *AckStrategy) SetCheckPeriod(period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.CheckPeriod = period
}

// MaxTimeSinceLastAck returns the ack-age ceiling before a subscription is
// considered slow.
func (s *AckStrategy) MaxTimeSinceLastAck() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.MaxTimeSinceLastAck
}

// SetMaxTimeSinceLastAck sets the ack-age ceiling before a subscription is
// considered slow. A negative value disables the strategy.
func (s *AckStrategy) SetMaxTimeSinceLastAck(max time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.MaxTimeSinceLastAck = max
}

// MaxSlowDuration returns the duration-based escalation ceiling.
func (s *AckStrategy) MaxSlowDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.MaxSlowDuration
}

// SetMaxSlowDuration sets the duration-based escalation ceiling. A value
// <= 0 disables duration-based escalation.
func (s *AckStrategy) SetMaxSlowDuration(max time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.MaxSlowDuration = max
}

// MaxSlowCount returns the count-based escalation ceiling.
func (s *AckStrategy) MaxSlowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.MaxSlowCount
}

// SetMaxSlowCount sets the count-based escalation ceiling. A value <= 0
// disables count-based escalation.
func (s *AckStrategy) SetMaxSlowCount(max int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.MaxSlowCount = max
}

// AbortConnection reports whether qualifying aborts tear down the whole
// connection rather than just the subscription.
func (s *AckStrategy) AbortConnection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.AbortConnection
}

// SetAbortConnection sets whether qualifying aborts tear down the whole
// connection rather than just the subscription.
func (s *AckStrategy) SetAbortConnection(abort bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.AbortConnection = abort
}

// IgnoreIdleConsumers reports whether subscriptions with an empty dispatch
// queue are excluded from slowness checks.
func (s *AckStrategy) IgnoreIdleConsumers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.IgnoreIdleConsumers
}

// SetIgnoreIdleConsumers sets whether subscriptions with an empty dispatch
// queue are excluded from slowness checks.
//
// When disabled, subscriptions that have not received (and therefore not
// acked) any messages for MaxTimeSinceLastAck age like any other, which
// allows evicting idle consumers alongside genuinely slow ones.
func (s *AckStrategy) SetIgnoreIdleConsumers(ignore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.IgnoreIdleConsumers = ignore
}

// IgnoreNetworkConsumers reports the configured intent for peer-broker
// subscriptions. See Config.IgnoreNetworkConsumers for the caveat on how the
// update pass treats network subscriptions.
func (s *AckStrategy) IgnoreNetworkConsumers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg.IgnoreNetworkConsumers
}

// SetIgnoreNetworkConsumers sets the configured intent for peer-broker
// subscriptions.
func (s *AckStrategy) SetIgnoreNetworkConsumers(ignore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.IgnoreNetworkConsumers = ignore
}

// shortID returns a short unique suffix for default strategy names.
func shortID() string {
	return strings.ToLower(nuid.Next()[:6])
}
