package types

// SlowConsumerStrategy is the capability interface for slow-consumer
// policies. A broker wires one strategy per destination policy; the strategy
// decides which subscriptions qualify for abort and when.
//
// Implementations may react to broker-raised slow-consumer events, run their
// own periodic checks, or both.
type SlowConsumerStrategy interface {
	// OnSlowConsumerEvent is invoked by the broker when its dispatch path
	// flags a subscription as slow. Strategies that derive slowness from
	// their own signal (such as ack age) may ignore these events.
	OnSlowConsumerEvent(ctx ConnectionContext, sub Subscription)

	// RunCycle performs one monitoring pass over all registered
	// destinations. Invoked on a fixed period by a scheduler that
	// guarantees at most one concurrent invocation.
	RunCycle()

	// AddDestination registers a destination for monitoring. Callers are
	// responsible for not registering the same destination twice;
	// registration order is preserved.
	AddDestination(d Destination)
}
