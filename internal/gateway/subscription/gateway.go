// Package subscription is the Subscription Gateway (SPEC_FULL §2): a
// connection registry keyed by an opaque handle, each connection's
// topic set, and an outbound event.Event channel the Gateway fans
// events into. It has no transport of its own — WebSocket, SSE, or
// gRPC-stream framing is out of scope (SPEC_FULL §2) — callers drain
// the channel returned by Register and write it to whatever transport
// they hold.
//
// Grounded on internal/broker/inmemory.Bus's subscriber-registry shape
// (mutex-guarded map of IDs to channels), generalized from one
// channel per topic to one channel per connection fed by however many
// topics that connection wants, since a single client typically wants
// several topics (its own user:, one or more booking:, etc.) merged
// into a single read loop.
package subscription

import (
	"sync"

	"hotel-reservation-engine/internal/domain/event"
)

const defaultBufferSize = 64

// Gateway fans bus events out to registered connections.
type Gateway struct {
	bus event.Bus

	mu          sync.Mutex
	connections map[string]*connection
}

type connection struct {
	out          chan event.Event
	unsubscribes []func()
	wg           sync.WaitGroup
}

// New constructs a Gateway over bus. bus is normally
// internal/broker/inmemory.Bus, the same instance the Executor and
// Scheduler publish to.
func New(bus event.Bus) *Gateway {
	return &Gateway{bus: bus, connections: make(map[string]*connection)}
}

// Register subscribes id to every topic in topics and returns a single
// merged channel of events for all of them; Unregister(id) tears it down.
// Registering the same id twice replaces its previous registration
// (closing the old channel) rather than layering two.
func (g *Gateway) Register(id string, topics []event.Topic) <-chan event.Event {
	conn := &connection{out: make(chan event.Event, defaultBufferSize)}

	for _, topic := range topics {
		ch, unsubscribe := g.bus.Subscribe(topic)
		conn.unsubscribes = append(conn.unsubscribes, unsubscribe)
		conn.wg.Add(1)
		go conn.pump(ch)
	}
	go func() {
		conn.wg.Wait()
		close(conn.out)
	}()

	g.mu.Lock()
	if prev, ok := g.connections[id]; ok {
		prev.close()
	}
	g.connections[id] = conn
	g.mu.Unlock()

	return conn.out
}

// pump forwards every event from a per-topic subscription channel into
// the connection's merged outbound channel until the subscription
// channel is closed (by Unregister) or the outbound channel is full,
// in which case the event is dropped — a stalled reader must not back
// up the bus subscriber channel that Publish writes to synchronously.
func (c *connection) pump(in <-chan event.Event) {
	defer c.wg.Done()
	for ev := range in {
		select {
		case c.out <- ev:
		default:
		}
	}
}

func (c *connection) close() {
	for _, unsubscribe := range c.unsubscribes {
		unsubscribe()
	}
}

// Unregister tears down id's subscriptions and closes its outbound
// channel. Safe to call more than once or with an unknown id.
func (g *Gateway) Unregister(id string) {
	g.mu.Lock()
	conn, ok := g.connections[id]
	if ok {
		delete(g.connections, id)
	}
	g.mu.Unlock()

	if ok {
		conn.close()
	}
}

// ConnectionIDs returns the registered connection ids, for diagnostics and
// tests.
func (g *Gateway) ConnectionIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.connections))
	for id := range g.connections {
		ids = append(ids, id)
	}
	return ids
}
