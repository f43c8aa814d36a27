// Package nats bridges the in-process Notification Bus onto NATS
// JetStream for durable, at-least-once external consumption
// (SPEC_FULL §2, §4.5). Grounded on the teacher's
// pkg/broker/nats/jetstream/{jetstream,publisher}.go: stream
// provisioning via jetstream.CreateStream/UpdateStream and a
// Publisher wrapping a stable JSON event envelope, adapted here to
// take a constructor-injected *zap.Logger and event.Bus instead of a
// package-level client.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"hotel-reservation-engine/internal/domain/event"
)

const connectTimeout = 5 * time.Second

// Config configures the bridge's JetStream stream.
type Config struct {
	URL         string
	StreamName  string
	SubjectRoot string
}

// wireEvent is the durable, language-neutral envelope republished onto
// JetStream (spec §6 "Wire-format... {topic, kind, at, ...}").
type wireEvent struct {
	ID      string         `json:"id"`
	Topic   string         `json:"topic"`
	Kind    string         `json:"kind"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload"`
}

// Bridge subscribes to every in-process bus topic (via SubscribeAll)
// and republishes every non-suppressed event onto JetStream subjects
// named "<SubjectRoot>.<kind>".
type Bridge struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	cfg    Config
	logger *zap.Logger

	// suppressedKinds are high-frequency kinds not worth durable
	// external republishing (SPEC_FULL §4.5: AVAILABILITY_CHANGED).
	suppressedKinds map[event.Kind]bool
}

// New connects to NATS, provisions the JetStream stream, and returns a
// ready-to-use Bridge.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Bridge, error) {
	nc, err := nats.Connect(cfg.URL, nats.ReconnectWait(5*time.Second), nats.MaxReconnects(10))
	if err != nil {
		return nil, fmt.Errorf("nats bridge: connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("nats bridge: jetstream.New: %w", err)
	}

	streamCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	streamCfg := jetstream.StreamConfig{
		Name:      cfg.StreamName,
		Subjects:  []string{cfg.SubjectRoot + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
	}
	if _, err := js.CreateStream(streamCtx, streamCfg); err != nil {
		if _, err := js.UpdateStream(streamCtx, streamCfg); err != nil {
			nc.Close()
			return nil, fmt.Errorf("nats bridge: provision stream: %w", err)
		}
	}

	return &Bridge{
		nc: nc, js: js, cfg: cfg, logger: logger,
		suppressedKinds: map[event.Kind]bool{event.KindAvailabilityChanged: true},
	}, nil
}

// Run subscribes to every event bus publishes, across every topic,
// and republishes each non-suppressed one until ctx is cancelled
// (spec §4.5 "durable external consumption" of the full event
// stream — booking:{id}/hotel:{id}/user:{id} topics are created per
// aggregate, so a fixed topic list could never cover all of them).
func (b *Bridge) Run(ctx context.Context, bus event.Bus) {
	ch, unsubscribe := bus.SubscribeAll()
	go b.forward(ctx, ch, unsubscribe)
}

func (b *Bridge) forward(ctx context.Context, ch <-chan event.Event, unsubscribe func()) {
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if b.suppressedKinds[ev.Kind] {
				continue
			}
			if err := b.publish(ctx, ev); err != nil {
				b.logger.Warn("nats bridge: publish failed", zap.Error(err), zap.String("topic", string(ev.Topic)))
			}
		}
	}
}

func (b *Bridge) publish(ctx context.Context, ev event.Event) error {
	wire := wireEvent{ID: generateID(), Topic: string(ev.Topic), Kind: string(ev.Kind), At: ev.At, Payload: ev.Payload}
	data, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subject := b.cfg.SubjectRoot + "." + string(ev.Kind)
	if _, err := b.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the underlying NATS connection.
func (b *Bridge) Close() {
	if b.nc != nil {
		b.nc.Close()
	}
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
