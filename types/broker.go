package types

import "time"

// ConnectionContext is an opaque handle to the connection a subscription
// belongs to. The monitor captures it when a subscription is first judged
// slow and hands it, untouched, to the abort action. Implementations are
// broker-specific; the policy never inspects it.
type ConnectionContext any

// Subscription is a single consumer of a destination, as seen by the broker.
//
// Implementations must be safe for concurrent use: the monitor reads them
// from its cycle goroutine while the broker dispatches messages to them.
type Subscription interface {
	// ID returns a stable identifier for this subscription, unique within
	// the broker. Used as the tracking key and in log output.
	ID() string

	// IsNetwork reports whether this subscription represents a link to a
	// peer broker rather than an end client. Network links ack on their own
	// schedule, so their ack times are not a usable slowness signal.
	IsNetwork() bool

	// DispatchedQueueSize returns the number of messages dispatched to this
	// subscription that have not yet been acknowledged.
	DispatchedQueueSize() int

	// TimeOfLastMessageAck returns the wall-clock time of the most recent
	// acknowledgment from this subscription.
	TimeOfLastMessageAck() time.Time

	// ConnectionContext returns the opaque connection handle for this
	// subscription, captured into the tracking entry for the abort action.
	ConnectionContext() ConnectionContext
}

// Destination is a managed resource (queue, topic, stream) that owns a set
// of subscriptions.
type Destination interface {
	// IsDisposed reports whether the destination has been removed from the
	// broker. A disposed destination is pruned from the monitor permanently.
	IsDisposed() bool

	// Consumers returns a stable point-in-time snapshot of the current
	// subscriptions. The returned slice is owned by the caller.
	Consumers() []Subscription
}
