package testing

import (
	"slices"
	"sync"
	"time"

	"github.com/arloliu/ackwatch/types"
)

// FakeSubscription is a scriptable types.Subscription for tests.
//
// All fields can be mutated between monitor cycles; access is mutex-guarded
// so tests can adjust state while a monitor is running.
type FakeSubscription struct {
	mu         sync.Mutex
	id         string
	network    bool
	dispatched int
	lastAck    time.Time
	connCtx    types.ConnectionContext
}

var _ types.Subscription = (*FakeSubscription)(nil)

// NewFakeSubscription creates a fake subscription with one pending message
// and a last-ack time of now.
func NewFakeSubscription(id string) *FakeSubscription {
	return &FakeSubscription{
		id:         id,
		dispatched: 1,
		lastAck:    time.Now(),
		connCtx:    "conn-" + id,
	}
}

// ID returns the subscription identifier.
func (f *FakeSubscription) ID() string {
	return f.id
}

// IsNetwork reports the scripted network-origin flag.
func (f *FakeSubscription) IsNetwork() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.network
}

// DispatchedQueueSize returns the scripted pending message count.
func (f *FakeSubscription) DispatchedQueueSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.dispatched
}

// TimeOfLastMessageAck returns the scripted last-ack time.
func (f *FakeSubscription) TimeOfLastMessageAck() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastAck
}

// ConnectionContext returns the scripted connection context.
func (f *FakeSubscription) ConnectionContext() types.ConnectionContext {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.connCtx
}

// SetNetwork scripts the network-origin flag.
func (f *FakeSubscription) SetNetwork(network bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.network = network
}

// SetDispatchedQueueSize scripts the pending message count.
func (f *FakeSubscription) SetDispatchedQueueSize(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dispatched = n
}

// SetLastAck scripts the last-ack time.
func (f *FakeSubscription) SetLastAck(at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastAck = at
}

// SetConnectionContext scripts the connection context.
func (f *FakeSubscription) SetConnectionContext(ctx types.ConnectionContext) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.connCtx = ctx
}

// FakeDestination is a scriptable types.Destination for tests.
type FakeDestination struct {
	mu       sync.Mutex
	disposed bool
	subs     []types.Subscription
}

var _ types.Destination = (*FakeDestination)(nil)

// NewFakeDestination creates a fake destination owning the given subscriptions.
func NewFakeDestination(subs ...types.Subscription) *FakeDestination {
	return &FakeDestination{subs: subs}
}

// IsDisposed reports the scripted disposed flag.
func (f *FakeDestination) IsDisposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.disposed
}

// Consumers returns a copy of the current subscription set.
func (f *FakeDestination) Consumers() []types.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.subs)
}

// SetDisposed scripts the disposed flag.
func (f *FakeDestination) SetDisposed(disposed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.disposed = disposed
}

// SetConsumers replaces the subscription set.
func (f *FakeDestination) SetConsumers(subs ...types.Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subs = subs
}
