package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation-engine/internal/broker/inmemory"
	"hotel-reservation-engine/internal/domain/event"
)

func TestBus_Publish_DeliversInOrderToTopicSubscriber(t *testing.T) {
	ctx := context.Background()
	bus := inmemory.New()

	ch, unsubscribe := bus.Subscribe(event.BookingTopic("b1"))
	defer unsubscribe()

	kinds := []event.Kind{event.KindTransitionStarted, event.KindTransitionCompleted, event.KindBookingConfirmed}
	for _, k := range kinds {
		require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.BookingTopic("b1"), Kind: k}))
	}

	for _, want := range kinds {
		select {
		case ev := <-ch:
			assert.Equal(t, want, ev.Kind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBus_Publish_DoesNotCrossDeliverToOtherTopics(t *testing.T) {
	ctx := context.Background()
	bus := inmemory.New()

	chBooking, unsubBooking := bus.Subscribe(event.BookingTopic("b1"))
	defer unsubBooking()
	chHotel, unsubHotel := bus.Subscribe(event.HotelTopic("h1"))
	defer unsubHotel()

	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.BookingTopic("b1"), Kind: event.KindBookingConfirmed}))

	select {
	case ev := <-chBooking:
		assert.Equal(t, event.KindBookingConfirmed, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for booking topic event")
	}

	select {
	case ev := <-chHotel:
		t.Fatalf("unexpected event on hotel topic: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_SubscribeAll_SeesEventsAcrossEveryTopic(t *testing.T) {
	ctx := context.Background()
	bus := inmemory.New()

	firehose, unsubscribe := bus.SubscribeAll()
	defer unsubscribe()

	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.BookingTopic("b1"), Kind: event.KindTransitionStarted}))
	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.HotelTopic("h1"), Kind: event.KindAvailabilityChanged}))
	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.UserTopic("u1"), Kind: event.KindRefundCalculated}))
	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.AdminTopic, Kind: event.KindInvoiceGenerated}))

	got := make([]event.Kind, 0, 4)
	for i := 0; i < 4; i++ {
		select {
		case ev := <-firehose:
			got = append(got, ev.Kind)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for firehose event %d", i)
		}
	}

	assert.ElementsMatch(t, []event.Kind{
		event.KindTransitionStarted, event.KindAvailabilityChanged,
		event.KindRefundCalculated, event.KindInvoiceGenerated,
	}, got)
}

func TestBus_SubscribeAll_UnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	bus := inmemory.New()

	firehose, unsubscribe := bus.SubscribeAll()
	unsubscribe()

	require.NoError(t, bus.Publish(ctx, event.Event{Topic: event.AdminTopic, Kind: event.KindMetricsRollup}))

	_, ok := <-firehose
	assert.False(t, ok, "channel should be closed after unsubscribe")
}
