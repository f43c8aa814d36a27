package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one deferred Job. Returning an error nacks the
// delivery so RabbitMQ redelivers it; handlers must therefore be
// idempotent on Job.JobID (SPEC_FULL §2).
type Handler func(ctx context.Context, job Job) error

// Consume delivers messages from queueName to handler until ctx is
// cancelled, acking on success and nacking (with requeue) on failure.
func (q *Queue) Consume(ctx context.Context, queueName string, handler Handler) error {
	if err := q.channel.Qos(10, 0, false); err != nil {
		return err
	}

	deliveries, err := q.channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var job Job
			if err := json.Unmarshal(d.Body, &job); err != nil {
				q.logger.Error("rabbitmq: malformed job body", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			if err := handler(ctx, job); err != nil {
				q.logger.Warn("rabbitmq: job handler failed, requeueing", zap.Error(err), zap.String("job_id", job.JobID))
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
