package natsjs

import (
	"context"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/ackwatch"
	"github.com/arloliu/ackwatch/internal/logging"
	"github.com/arloliu/ackwatch/types"
)

// ConsumerAborter implements ackwatch.Aborter by deleting qualifying
// JetStream consumers.
//
// Durable consumers keep accumulating unacked state server-side while their
// client stalls; deleting the consumer is the JetStream equivalent of
// aborting the subscription. The abort-whole-connection flag has no further
// effect here since JetStream consumers are not bound to one client
// connection; it is logged for visibility.
type ConsumerAborter struct {
	js      jetstream.JetStream
	timeout time.Duration
	logger  types.Logger
}

var _ ackwatch.Aborter = (*ConsumerAborter)(nil)

// NewConsumerAborter creates an Aborter that deletes qualifying consumers.
//
// Parameters:
//   - js: JetStream context
//   - logger: Logger for abort outcomes (nop logger when nil)
//
// Returns:
//   - *ConsumerAborter: Aborter deleting consumers via the JetStream API
func NewConsumerAborter(js jetstream.JetStream, logger types.Logger) *ConsumerAborter {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &ConsumerAborter{
		js:      js,
		timeout: DefaultOperationTimeout,
		logger:  logger,
	}
}

// Abort deletes every consumer in the batch. An empty batch is a no-op.
//
// Deletion failures are logged and do not stop the rest of the batch; a
// consumer that outlives a failed delete is simply re-detected on a later
// cycle.
func (a *ConsumerAborter) Abort(batch map[string]*ackwatch.SlowConsumerEntry, abortConnection bool) {
	if len(batch) == 0 {
		return
	}

	if abortConnection {
		a.logger.Debug("abortConnection requested, JetStream consumers are connection-agnostic, deleting consumers only")
	}

	for id, entry := range batch {
		ref, ok := entry.ConnectionContext().(ConsumerRef)
		if !ok {
			a.logger.Error("entry does not carry a JetStream consumer reference", "subscription", id)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.js.DeleteConsumer(ctx, ref.Stream, ref.Name)
		cancel()

		if err != nil {
			a.logger.Error("failed to delete slow consumer",
				"stream", ref.Stream, "consumer", ref.Name, "error", err)
			continue
		}

		a.logger.Info("deleted slow consumer",
			"stream", ref.Stream, "consumer", ref.Name,
			"markCount", entry.MarkCount(), "slowCount", entry.SlowCount())
	}
}
