package ackwatch

import "github.com/arloliu/ackwatch/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core contracts.
// It uses type aliases to re-export definitions from the `types` subpackage,
// which contains the actual declarations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `ackwatch`
// package, while still providing a convenient `ackwatch.Destination`,
// `ackwatch.Logger`, etc. for users.
type (
	Destination       = types.Destination
	Subscription      = types.Subscription
	ConnectionContext = types.ConnectionContext
)

// Re-export interfaces from the internal types package for convenience.
type (
	SlowConsumerStrategy = types.SlowConsumerStrategy
	MetricsCollector     = types.MetricsCollector
	Logger               = types.Logger
)

// Aborter externally performs the actual disconnection of subscriptions the
// strategy has given up on. Declared here rather than in the types package
// because the batch carries *SlowConsumerEntry values owned by this package.
type Aborter interface {
	// Abort terminates every subscription in the batch, keyed by
	// subscription ID. When abortConnection is true the whole connection
	// backing each subscription should be torn down, not just the
	// subscription itself. An empty batch must be treated as a no-op.
	//
	// Entries in the batch are read-only snapshots; the strategy has
	// already stopped tracking them.
	Abort(batch map[string]*SlowConsumerEntry, abortConnection bool)
}
