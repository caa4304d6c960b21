// Package ackwatch provides a slow-consumer detection and abort policy for
// message brokers, based on the time elapsed since each subscription's last
// acknowledgment.
//
// A periodically-run monitor inspects every subscription of every registered
// destination, classifies each as slow when its ack age exceeds a configured
// ceiling, accumulates slowness evidence across successive cycles, and hands
// qualifying subscriptions to an abort action once a duration-based or
// count-based escalation threshold is exceeded.
//
// # Quick Start
//
//	cfg := ackwatch.DefaultConfig()
//	cfg.MaxTimeSinceLastAck = 30 * time.Second
//	cfg.MaxSlowDuration = 2 * time.Minute
//
//	strategy, err := ackwatch.NewAckStrategy(&cfg, myAborter)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	strategy.AddDestination(dest)
//
//	if err := strategy.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer strategy.Stop()
//
// # Key Behaviors
//
//   - Ack-age classification: a subscription is slow when now minus its last
//     ack exceeds MaxTimeSinceLastAck (negative value disables the strategy)
//   - Idle filter: subscriptions with an empty dispatch queue are never
//     judged slow while IgnoreIdleConsumers is set
//   - Network filter: peer-broker subscriptions are always excluded from
//     tracking
//   - Escalation: abort when markCount*CheckPeriod exceeds MaxSlowDuration or
//     slowCount exceeds MaxSlowCount, whichever trips first
//
// # Broker Integration
//
// Brokers plug in through the Destination, Subscription, and Aborter
// interfaces. The natsjs subpackage provides a ready adapter for NATS
// JetStream streams and consumers.
//
// See the examples/ directory for complete working examples.
package ackwatch
