package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation-engine/internal/broker/inmemory"
	"hotel-reservation-engine/internal/domain/event"
	"hotel-reservation-engine/internal/gateway/subscription"
)

func TestGateway_FansOutAcrossTopics(t *testing.T) {
	bus := inmemory.New()
	gw := subscription.New(bus)

	out := gw.Register("conn-1", []event.Topic{event.UserTopic("u1"), event.BookingTopic("b1")})

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.UserTopic("u1"), Kind: event.KindBookingReminder}))
	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.BookingTopic("b1"), Kind: event.KindBookingConfirmed}))

	seen := map[event.Kind]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-out:
			seen[ev.Kind] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fanned-out event")
		}
	}
	assert.True(t, seen[event.KindBookingReminder])
	assert.True(t, seen[event.KindBookingConfirmed])
}

func TestGateway_UnregisterClosesOutboundChannel(t *testing.T) {
	bus := inmemory.New()
	gw := subscription.New(bus)

	out := gw.Register("conn-1", []event.Topic{event.AdminTopic})
	gw.Unregister("conn-1")

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound channel to close")
	}
}

func TestGateway_RegisteringSameIDReplacesPrevious(t *testing.T) {
	bus := inmemory.New()
	gw := subscription.New(bus)

	first := gw.Register("conn-1", []event.Topic{event.AdminTopic})
	second := gw.Register("conn-1", []event.Topic{event.AdminTopic})

	select {
	case _, ok := <-first:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replaced channel to close")
	}

	assert.NoError(t, bus.Publish(context.Background(), event.Event{Topic: event.AdminTopic, Kind: event.KindMetricsRollup}))
	select {
	case ev := <-second:
		assert.Equal(t, event.KindMetricsRollup, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event on replacement channel")
	}
}
