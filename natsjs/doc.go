// Package natsjs adapts NATS JetStream streams and consumers to the ackwatch
// broker interfaces.
//
// A JetStream stream maps to a Destination and each of its consumers to a
// Subscription: NumAckPending is the dispatch queue size and the ack floor's
// last-ack timestamp is the slowness signal. Consumers created by
// cross-account or leaf-node plumbing can be marked as network-origin via the
// MetadataOriginKey consumer metadata entry so the policy excludes them.
//
// The ConsumerAborter implements abort by deleting the qualifying consumer.
// JetStream consumers are not tied to a single client connection, so the
// abort-whole-connection flag has no additional effect at this layer.
package natsjs
