package ackwatch

import (
	"github.com/arloliu/ackwatch/types"
)

// SlowConsumerEntry is the per-subscription tracking record. One exists for a
// subscription exactly while it is judged slow; it is created on the first
// disqualifying ack-age observation and destroyed when the subscription
// recovers, is filtered out, or is handed to the abort action.
//
// Entries are exclusively owned by the monitor and mutated only from its
// cycle goroutine. The abort action receives them as read-only snapshots.
type SlowConsumerEntry struct {
	sub     types.Subscription
	ctx     types.ConnectionContext
	markCnt int
	slowCnt int
}

func newSlowConsumerEntry(sub types.Subscription) *SlowConsumerEntry {
	return &SlowConsumerEntry{
		sub: sub,
		ctx: sub.ConnectionContext(),
	}
}

// mark ages the entry by one monitor cycle. Feeds duration-based escalation.
func (e *SlowConsumerEntry) mark() {
	e.markCnt++
}

// slow records one re-confirmation of slowness. Feeds count-based escalation.
func (e *SlowConsumerEntry) slow() {
	e.slowCnt++
}

// Subscription returns the tracked subscription.
func (e *SlowConsumerEntry) Subscription() types.Subscription {
	return e.sub
}

// ConnectionContext returns the connection context captured when the
// subscription was first judged slow, for use by the abort action.
func (e *SlowConsumerEntry) ConnectionContext() types.ConnectionContext {
	return e.ctx
}

// MarkCount returns the number of monitor cycles this entry has been aged.
// Never decreases while the entry exists.
func (e *SlowConsumerEntry) MarkCount() int {
	return e.markCnt
}

// SlowCount returns the number of times the subscription was re-confirmed
// slow after the entry was created.
func (e *SlowConsumerEntry) SlowCount() int {
	return e.slowCnt
}
