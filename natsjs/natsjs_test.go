package natsjs_test

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ackwatch"
	"github.com/arloliu/ackwatch/natsjs"
	awtest "github.com/arloliu/ackwatch/testing"
)

func setupStream(t *testing.T) jetstream.JetStream {
	t.Helper()

	_, nc := awtest.StartEmbeddedNATS(t)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     "EVENTS",
		Subjects: []string{"events.>"},
	})
	require.NoError(t, err)

	return js
}

func TestStreamDestination_ConsumerSnapshot(t *testing.T) {
	js := setupStream(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stream, err := js.Stream(ctx, "EVENTS")
	require.NoError(t, err)

	_, err = stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   "app",
		AckPolicy: jetstream.AckExplicitPolicy,
	})
	require.NoError(t, err)

	_, err = stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   "mirror",
		AckPolicy: jetstream.AckExplicitPolicy,
		Metadata:  map[string]string{natsjs.MetadataOriginKey: "network"},
	})
	require.NoError(t, err)

	dest, err := natsjs.NewStreamDestination(ctx, js, "EVENTS", awtest.NewTestLogger(t))
	require.NoError(t, err)
	require.False(t, dest.IsDisposed())
	require.Equal(t, "EVENTS", dest.Name())

	subs := dest.Consumers()
	require.Len(t, subs, 2)

	byID := map[string]bool{}
	for _, sub := range subs {
		byID[sub.ID()] = sub.IsNetwork()
		require.Zero(t, sub.DispatchedQueueSize())
		// Never acked: falls back to consumer creation time.
		require.WithinDuration(t, time.Now(), sub.TimeOfLastMessageAck(), time.Minute)
	}

	require.False(t, byID["app"])
	require.True(t, byID["mirror"])
}

func TestConsumerSubscription_AckPendingAndAckFloor(t *testing.T) {
	js := setupStream(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stream, err := js.Stream(ctx, "EVENTS")
	require.NoError(t, err)

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   "worker",
		AckPolicy: jetstream.AckExplicitPolicy,
	})
	require.NoError(t, err)

	_, err = js.Publish(ctx, "events.created", []byte("payload"))
	require.NoError(t, err)

	batch, err := cons.Fetch(1, jetstream.FetchMaxWait(2*time.Second))
	require.NoError(t, err)

	var fetched jetstream.Msg
	for msg := range batch.Messages() {
		fetched = msg
	}
	require.NotNil(t, fetched)
	require.NoError(t, batch.Error())

	dest, err := natsjs.NewStreamDestination(ctx, js, "EVENTS", awtest.NewTestLogger(t))
	require.NoError(t, err)

	subs := dest.Consumers()
	require.Len(t, subs, 1)
	require.Equal(t, 1, subs[0].DispatchedQueueSize(), "fetched-but-unacked message must count as dispatched")

	require.NoError(t, fetched.DoubleAck(ctx))

	subs = dest.Consumers()
	require.Len(t, subs, 1)
	require.Zero(t, subs[0].DispatchedQueueSize())
	require.WithinDuration(t, time.Now(), subs[0].TimeOfLastMessageAck(), time.Minute)
}

func TestStreamDestination_DisposedAfterStreamDelete(t *testing.T) {
	js := setupStream(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dest, err := natsjs.NewStreamDestination(ctx, js, "EVENTS", awtest.NewTestLogger(t))
	require.NoError(t, err)
	require.False(t, dest.IsDisposed())

	require.NoError(t, js.DeleteStream(ctx, "EVENTS"))

	require.True(t, dest.IsDisposed())
	// Latched: stays disposed without further lookups.
	require.True(t, dest.IsDisposed())
}

// End-to-end: a consumer with unacked messages and an old ack floor is
// detected, escalated, and deleted by the aborter.
func TestAckStrategy_AbortsStalledJetStreamConsumer(t *testing.T) {
	js := setupStream(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stream, err := js.Stream(ctx, "EVENTS")
	require.NoError(t, err)

	stalled, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   "stalled",
		AckPolicy: jetstream.AckExplicitPolicy,
		AckWait:   time.Hour, // keep the fetched message pending
	})
	require.NoError(t, err)

	_, err = stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   "peer-link",
		AckPolicy: jetstream.AckExplicitPolicy,
		Metadata:  map[string]string{natsjs.MetadataOriginKey: "network"},
	})
	require.NoError(t, err)

	_, err = js.Publish(ctx, "events.created", []byte("payload"))
	require.NoError(t, err)

	// Fetch without acking so the consumer has a pending dispatch.
	batch, err := stalled.Fetch(1, jetstream.FetchMaxWait(2*time.Second))
	require.NoError(t, err)
	for range batch.Messages() {
	}
	require.NoError(t, batch.Error())

	dest, err := natsjs.NewStreamDestination(ctx, js, "EVENTS", awtest.NewTestLogger(t))
	require.NoError(t, err)

	cfg := ackwatch.Config{
		CheckPeriod:         100 * time.Millisecond,
		MaxTimeSinceLastAck: time.Second,
		MaxSlowDuration:     150 * time.Millisecond,
		IgnoreIdleConsumers: true,
	}

	strategy, err := ackwatch.NewAckStrategy(&cfg, natsjs.NewConsumerAborter(js, awtest.NewTestLogger(t)),
		ackwatch.WithLogger(awtest.NewTestLogger(t)),
		// Far-future clock makes the stalled consumer's ack age exceed the ceiling.
		ackwatch.WithClock(func() time.Time { return time.Now().Add(time.Hour) }),
	)
	require.NoError(t, err)

	strategy.AddDestination(dest)

	// Cycle 1 creates the entry (markCount 0). Cycle 2 ages it to 1
	// (100ms <= 150ms, still probationary). Cycle 3 ages it to 2
	// (200ms > 150ms) and aborts.
	strategy.RunCycle()
	strategy.RunCycle()
	strategy.RunCycle()

	_, err = stream.Consumer(ctx, "stalled")
	require.ErrorIs(t, err, jetstream.ErrConsumerNotFound, "stalled consumer must be deleted")

	_, err = stream.Consumer(ctx, "peer-link")
	require.NoError(t, err, "network consumer must never be aborted")
}
