package natsjs

import (
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/ackwatch/types"
)

// MetadataOriginKey is the consumer metadata key the adapter inspects to
// classify a consumer's origin. A value of "network" marks the consumer as a
// peer-link (network) subscription, excluding it from slow tracking.
const MetadataOriginKey = "ackwatch-origin"

// originNetwork is the MetadataOriginKey value for peer-link consumers.
const originNetwork = "network"

// ConsumerRef identifies a JetStream consumer for the abort action. It is
// the connection context captured into tracking entries.
type ConsumerRef struct {
	Stream string
	Name   string
}

// ConsumerSubscription implements types.Subscription over a point-in-time
// JetStream consumer info snapshot.
type ConsumerSubscription struct {
	stream string
	info   *jetstream.ConsumerInfo
}

var _ types.Subscription = (*ConsumerSubscription)(nil)

func newConsumerSubscription(stream string, info *jetstream.ConsumerInfo) *ConsumerSubscription {
	return &ConsumerSubscription{stream: stream, info: info}
}

// ID returns the consumer name, unique within its stream.
func (s *ConsumerSubscription) ID() string {
	return s.info.Name
}

// IsNetwork reports whether the consumer metadata marks it as a peer-link
// subscription.
func (s *ConsumerSubscription) IsNetwork() bool {
	return s.info.Config.Metadata[MetadataOriginKey] == originNetwork
}

// DispatchedQueueSize returns the number of delivered-but-unacked messages.
func (s *ConsumerSubscription) DispatchedQueueSize() int {
	return s.info.NumAckPending
}

// TimeOfLastMessageAck returns the time of the consumer's last acknowledgment.
//
// Consumers that have never acked report their creation time, so a fresh
// consumer is not instantly judged slow.
func (s *ConsumerSubscription) TimeOfLastMessageAck() time.Time {
	if s.info.AckFloor.Last != nil {
		return *s.info.AckFloor.Last
	}

	return s.info.Created
}

// ConnectionContext returns a ConsumerRef identifying this consumer for the
// abort action.
func (s *ConsumerSubscription) ConnectionContext() types.ConnectionContext {
	return ConsumerRef{Stream: s.stream, Name: s.info.Name}
}

// Info exposes the underlying consumer info snapshot.
func (s *ConsumerSubscription) Info() *jetstream.ConsumerInfo {
	return s.info
}
