package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "hotel-reservation-engine/internal/cache/memory"
	"hotel-reservation-engine/internal/broker/inmemory"
	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/event"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/transition"
	"hotel-reservation-engine/internal/repository/memory"
	"hotel-reservation-engine/internal/scheduler"
	"hotel-reservation-engine/pkg/idgen"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func newTestExecutor(t *testing.T, clock idgen.Clock) (*transition.Executor, *memory.BookingRepository, *memory.RoomRepository, event.Bus) {
	t.Helper()
	rooms := memory.NewRoomRepository()
	bookings := memory.NewBookingRepository()
	cache := cachemem.New()
	proj := availability.NewProjector(bookings, rooms, cache, 5*time.Minute)
	bus := inmemory.New()
	ids := idgen.NewGenerator()
	exec := transition.NewExecutor(bookings, rooms, proj, bus, clock, ids, transition.DefaultConfig(), nil)
	return exec, bookings, rooms, bus
}

func TestPendingExpiryJob_CancelsOnlyBookingsOlderThanWindow(t *testing.T) {
	ctx := context.Background()
	createdLongAgo := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	now := createdLongAgo.Add(8 * 24 * time.Hour)
	clock := fixedClock{t: now}
	exec, bookings, rooms, _ := newTestExecutor(t, clock)

	_, err := rooms.Create(ctx, room.Room{ID: "r1", HotelID: "h1", Number: "1", Type: room.Double, BasePrice: decimal.NewFromInt(100), Status: room.Available})
	require.NoError(t, err)

	stale, err := bookings.Create(ctx, booking.Booking{
		ID: "stale", HotelID: "h1", CustomerID: "c1", Status: booking.Pending,
		CheckIn: now.Add(48 * time.Hour), CheckOut: now.Add(72 * time.Hour),
		Rooms: []booking.RoomRequest{{RoomType: room.Double, Count: 1}},
	})
	require.NoError(t, err)
	stale.CreatedAt = createdLongAgo
	_, err = bookings.Update(ctx, stale)
	require.NoError(t, err)

	fresh, err := bookings.Create(ctx, booking.Booking{
		ID: "fresh", HotelID: "h1", CustomerID: "c1", Status: booking.Pending,
		CheckIn: now.Add(48 * time.Hour), CheckOut: now.Add(72 * time.Hour),
		Rooms: []booking.RoomRequest{{RoomType: room.Double, Count: 1}},
	})
	require.NoError(t, err)
	fresh.CreatedAt = now.Add(-time.Hour)
	_, err = bookings.Update(ctx, fresh)
	require.NoError(t, err)

	job := scheduler.PendingExpiryJob(bookings, exec, 7*24*time.Hour, func() time.Time { return now })
	require.NoError(t, job.Run(ctx))

	after, err := bookings.GetByID(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, booking.Cancelled, after.Status)

	still, err := bookings.GetByID(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, booking.Pending, still.Status)
}

func TestNoShowJob_MarksPastGraceWindow(t *testing.T) {
	ctx := context.Background()
	checkIn := time.Date(2026, 7, 15, 8, 0, 0, 0, time.UTC)
	now := checkIn.Add(25 * time.Hour)
	clock := fixedClock{t: now}
	exec, bookings, rooms, _ := newTestExecutor(t, clock)

	_, err := rooms.Create(ctx, room.Room{ID: "r2", HotelID: "h1", Number: "2", Type: room.Double, BasePrice: decimal.NewFromInt(100), Status: room.Available})
	require.NoError(t, err)
	_, err = bookings.Create(ctx, booking.Booking{
		ID: "b1", HotelID: "h1", CustomerID: "c1", Status: booking.Confirmed,
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2),
		Rooms: []booking.RoomRequest{{RoomType: room.Double, Count: 1}},
	})
	require.NoError(t, err)

	job := scheduler.NoShowJob(bookings, exec, func() time.Time { return now })
	require.NoError(t, job.Run(ctx))

	after, err := bookings.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, booking.NoShow, after.Status)
}
