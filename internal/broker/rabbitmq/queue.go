// Package rabbitmq implements the deferred job queue for the
// Executor's non-blocking post-actions (SPEC_FULL §2: invoice
// generation and extras billing must not block step 8 of the
// Transition Executor). Grounded on the teacher's
// pkg/broker/rabbitmq/rabbitmq.go Conn+Channel connection shape, but
// rewritten away from its package-level var RabbitMQClient and
// panic-on-connect-failure pattern: spec §9 forbids global mutable
// singletons, so Queue is constructed explicitly and every fallible
// call returns an error instead of panicking.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"hotel-reservation-engine/internal/domain/event"
)

// Config configures the AMQP connection and the exchange/queue
// topology for deferred jobs.
type Config struct {
	URL          string
	Exchange     string
	InvoiceQueue string
	ExtrasQueue  string
}

// Job is the idempotent message body enqueued for invoice/extras
// workers (SPEC_FULL §2 "idempotent job messages").
type Job struct {
	JobID     string         `json:"job_id"`
	Kind      string         `json:"kind"`
	BookingID string         `json:"booking_id"`
	At        time.Time      `json:"at"`
	Payload   map[string]any `json:"payload"`
}

// Queue owns one AMQP connection and channel, and both publishes
// deferred jobs and bridges the in-process event.Bus onto them.
type Queue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	logger  *zap.Logger
}

// New dials RabbitMQ, opens a channel, and declares the exchange and
// the invoice/extras queues, binding each by routing key.
func New(cfg Config, logger *zap.Logger) (*Queue, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	q := &Queue{conn: conn, channel: ch, cfg: cfg, logger: logger}
	if err := q.topology(); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return q, nil
}

func (q *Queue) topology() error {
	if err := q.channel.ExchangeDeclare(q.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	bindings := []struct{ queue, routingKey string }{
		{q.cfg.InvoiceQueue, "job.invoice"},
		{q.cfg.ExtrasQueue, "job.extras"},
	}
	for _, b := range bindings {
		if _, err := q.channel.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbitmq: declare queue %s: %w", b.queue, err)
		}
		if err := q.channel.QueueBind(b.queue, b.routingKey, q.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("rabbitmq: bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}

// PublishJob enqueues a durable, persistent job message under
// routingKey.
func (q *Queue) PublishJob(ctx context.Context, routingKey string, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal job: %w", err)
	}
	return q.channel.PublishWithContext(ctx, q.cfg.Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.JobID,
		Timestamp:    job.At,
		Body:         body,
	})
}

// Bridge subscribes to topic on bus and enqueues a job for every event
// whose kind is in kindToRoutingKey. Run it once per topic the caller
// cares about (typically event.AdminTopic, where the Transition
// Executor publishes INVOICE_GENERATED on COMPLETED). No component of
// this module publishes EXTRAS_ADDED, so a job.extras mapping only
// fires for events published from outside it.
func (q *Queue) Bridge(ctx context.Context, bus event.Bus, topic event.Topic, kindToRoutingKey map[event.Kind]string) {
	ch, unsubscribe := bus.Subscribe(topic)
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				routingKey, wanted := kindToRoutingKey[ev.Kind]
				if !wanted {
					continue
				}
				job := Job{
					JobID:     jobID(ev),
					Kind:      string(ev.Kind),
					BookingID: fmt.Sprintf("%v", ev.Payload["booking_id"]),
					At:        ev.At,
					Payload:   ev.Payload,
				}
				if err := q.PublishJob(ctx, routingKey, job); err != nil {
					q.logger.Warn("rabbitmq: publish job failed", zap.Error(err), zap.String("routing_key", routingKey))
				}
			}
		}
	}()
}

func jobID(ev event.Event) string {
	return fmt.Sprintf("%s-%d", ev.Payload["booking_id"], ev.At.UnixNano())
}

// Close releases the channel and connection.
func (q *Queue) Close() error {
	if q.channel != nil {
		_ = q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
