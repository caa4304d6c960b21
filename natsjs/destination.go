package natsjs

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/ackwatch/internal/logging"
	"github.com/arloliu/ackwatch/types"
)

// DefaultOperationTimeout bounds each JetStream lookup issued by the adapter.
const DefaultOperationTimeout = 5 * time.Second

// StreamDestination implements types.Destination over a JetStream stream.
//
// Consumers() issues a live consumer listing against the stream, returning a
// point-in-time snapshot. Once the stream is observed deleted the destination
// reports disposed permanently, matching the monitor's pruning contract.
type StreamDestination struct {
	js       jetstream.JetStream
	stream   jetstream.Stream
	name     string
	timeout  time.Duration
	logger   types.Logger
	disposed atomic.Bool
}

var _ types.Destination = (*StreamDestination)(nil)

// NewStreamDestination creates a Destination backed by the named JetStream stream.
//
// Parameters:
//   - ctx: Context for the initial stream lookup
//   - js: JetStream context
//   - name: Stream name (must exist)
//   - logger: Logger for listing failures (nop logger when nil)
//
// Returns:
//   - *StreamDestination: Destination adapter bound to the stream
//   - error: Stream lookup error (including jetstream.ErrStreamNotFound)
func NewStreamDestination(ctx context.Context, js jetstream.JetStream, name string, logger types.Logger) (*StreamDestination, error) {
	stream, err := js.Stream(ctx, name)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NewNop()
	}

	return &StreamDestination{
		js:      js,
		stream:  stream,
		name:    name,
		timeout: DefaultOperationTimeout,
		logger:  logger,
	}, nil
}

// Name returns the underlying stream name.
func (d *StreamDestination) Name() string {
	return d.name
}

// IsDisposed reports whether the underlying stream has been deleted.
//
// The check queries the stream's info; once the stream is gone the result is
// latched and no further queries are issued.
func (d *StreamDestination) IsDisposed() bool {
	if d.disposed.Load() {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if _, err := d.stream.Info(ctx); err != nil {
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			d.disposed.Store(true)
			return true
		}

		// Transient lookup failure: not evidence of disposal.
		d.logger.Warn("stream info lookup failed", "stream", d.name, "error", err)
	}

	return false
}

// Consumers returns a snapshot of the stream's current consumers.
//
// On listing failure an empty snapshot is returned and the failure is logged;
// the monitor treats that cycle as having nothing to scan for this
// destination.
func (d *StreamDestination) Consumers() []types.Subscription {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	lister := d.stream.ListConsumers(ctx)

	var subs []types.Subscription
	for info := range lister.Info() {
		subs = append(subs, newConsumerSubscription(d.name, info))
	}

	if err := lister.Err(); err != nil {
		d.logger.Warn("consumer listing failed", "stream", d.name, "error", err)
		return nil
	}

	return subs
}
