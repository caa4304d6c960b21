package ackwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	awtest "github.com/arloliu/ackwatch/testing"
)

func TestSlowConsumerEntry_CapturesSubscriptionAndContext(t *testing.T) {
	sub := awtest.NewFakeSubscription("sub-1")
	sub.SetConnectionContext("conn-ctx")

	entry := newSlowConsumerEntry(sub)

	assert.Same(t, sub, entry.Subscription().(*awtest.FakeSubscription))
	assert.Equal(t, "conn-ctx", entry.ConnectionContext())
	assert.Zero(t, entry.MarkCount())
	assert.Zero(t, entry.SlowCount())
}

func TestSlowConsumerEntry_ContextCapturedAtCreation(t *testing.T) {
	sub := awtest.NewFakeSubscription("sub-1")
	sub.SetConnectionContext("before")

	entry := newSlowConsumerEntry(sub)
	sub.SetConnectionContext("after")

	// The abort action sees the context from the moment the subscription
	// was first judged slow.
	assert.Equal(t, "before", entry.ConnectionContext())
}

func TestSlowConsumerEntry_MarkAndSlowIncrement(t *testing.T) {
	entry := newSlowConsumerEntry(awtest.NewFakeSubscription("sub-1"))

	for i := 1; i <= 5; i++ {
		entry.mark()
		assert.Equal(t, i, entry.MarkCount())
	}

	for i := 1; i <= 3; i++ {
		entry.slow()
		assert.Equal(t, i, entry.SlowCount())
	}

	// Independent counters.
	assert.Equal(t, 5, entry.MarkCount())
}
