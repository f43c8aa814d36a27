// Package inmemory implements the core Notification Bus (spec §4.5)
// as an in-process publish-subscribe over per-topic bounded buffered
// channels. It is grounded on the event envelope shape of the
// teacher's pkg/broker/nats/jetstream publisher (id/type/source/
// timestamp/data), reimplemented without a wire transport per spec
// §4.5's "in-process publish-subscribe" requirement.
package inmemory

import (
	"context"
	"sync"

	"hotel-reservation-engine/internal/domain/event"
	"hotel-reservation-engine/pkg/errors"
)

const defaultBufferSize = 64

// Bus is the default, in-process implementation of event.Bus.
//
// Ordering: Publish writes ev to every subscriber's channel
// synchronously while holding that topic's mutex, so each subscriber
// receives a topic's events in the order Publish was called — this is
// what gives per-topic FIFO for a single publisher (spec §5, §8).
// Across different topics, no ordering is implied.
type Bus struct {
	mu     sync.Mutex
	topics map[event.Topic]*topicState

	allMu     sync.Mutex
	all       map[int]chan event.Event
	nextAllID int
}

type topicState struct {
	mu          sync.Mutex
	subscribers map[int]chan event.Event
	nextID      int
}

// New returns a ready-to-use Bus.
func New() *Bus {
	return &Bus{topics: make(map[event.Topic]*topicState), all: make(map[int]chan event.Event)}
}

func (b *Bus) state(topic event.Topic) *topicState {
	b.mu.Lock()
	defer b.mu.Unlock()
	ts, ok := b.topics[topic]
	if !ok {
		ts = &topicState{subscribers: make(map[int]chan event.Event)}
		b.topics[topic] = ts
	}
	return ts
}

// Publish delivers ev to every current subscriber of ev.Topic, in the
// order Publish is called (per-topic FIFO for this single writer).
// Critical kinds (spec §5) block, honoring ctx's deadline, when a
// subscriber's buffer is full; non-critical kinds drop the oldest
// buffered event on that subscriber's channel instead of blocking.
func (b *Bus) Publish(ctx context.Context, ev event.Event) error {
	ts := b.state(ev.Topic)

	ts.mu.Lock()
	for _, ch := range ts.subscribers {
		deliver(ctx, ch, ev)
	}
	ts.mu.Unlock()

	b.allMu.Lock()
	for _, ch := range b.all {
		deliver(ctx, ch, ev)
	}
	b.allMu.Unlock()

	return nil
}

func deliver(ctx context.Context, ch chan event.Event, ev event.Event) {
	select {
	case ch <- ev:
		return
	default:
	}

	if !ev.Kind.Critical() {
		// Best-effort: drop the oldest buffered event to make room,
		// per spec §5's explicit non-critical-kind policy.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
		return
	}

	// Critical kind: apply backpressure up to ctx's deadline.
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}

// Subscribe registers a new subscriber channel for topic and returns
// it alongside an unsubscribe func that closes and removes it.
func (b *Bus) Subscribe(topic event.Topic) (<-chan event.Event, func()) {
	ts := b.state(topic)

	ts.mu.Lock()
	id := ts.nextID
	ts.nextID++
	ch := make(chan event.Event, defaultBufferSize)
	ts.subscribers[id] = ch
	ts.mu.Unlock()

	unsubscribe := func() {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		if _, ok := ts.subscribers[id]; ok {
			delete(ts.subscribers, id)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// SubscribeAll returns a channel of every event published to any
// topic from this point forward, regardless of topic — the firehose
// the NATS bridge needs since booking:{id}/hotel:{id}/user:{id}
// topics are created per aggregate and can never be fully enumerated
// up front (spec §4.5 "republish every non-suppressed event").
func (b *Bus) SubscribeAll() (<-chan event.Event, func()) {
	b.allMu.Lock()
	id := b.nextAllID
	b.nextAllID++
	ch := make(chan event.Event, defaultBufferSize)
	b.all[id] = ch
	b.allMu.Unlock()

	unsubscribe := func() {
		b.allMu.Lock()
		defer b.allMu.Unlock()
		if _, ok := b.all[id]; ok {
			delete(b.all, id)
			close(ch)
		}
	}
	return ch, unsubscribe
}

var _ = errors.ErrInternal // Bus never fails publish; kept for parity with other ports' error surface.
