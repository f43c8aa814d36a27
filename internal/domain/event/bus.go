package event

import "context"

// Bus is the Notification Bus port (spec §2 leaf #8, §4.5): publish
// and subscribe-by-topic, with per-topic FIFO delivery for a given
// publisher and at-least-once delivery to in-process subscribers.
//
// Implementations: internal/broker/inmemory.Bus is the core bus used
// by the Executor, Scheduler, and Pricing Engine. internal/broker/nats
// wraps a Bus to additionally republish onto JetStream for durable
// external consumption — it does not replace the in-process Bus.
type Bus interface {
	// Publish enqueues ev onto ev.Topic. For critical kinds (spec §5)
	// Publish blocks, subject to ctx's deadline, when the topic's
	// buffer is full; for non-critical kinds it is always
	// non-blocking, dropping the oldest buffered event instead.
	Publish(ctx context.Context, ev Event) error

	// Subscribe returns a channel of events published to topic from
	// this point forward, and an unsubscribe func. Reconnect
	// resubscription is the caller's responsibility (spec §4.5); the
	// bus never replays missed events.
	Subscribe(topic Topic) (<-chan Event, func())

	// SubscribeAll returns a channel of every event published to any
	// topic from this point forward. Topics like booking:{id} are
	// created per aggregate, so this is the only way a durable
	// external consumer (internal/broker/nats) can see the full event
	// stream without enumerating every topic in advance.
	SubscribeAll() (<-chan Event, func())
}
