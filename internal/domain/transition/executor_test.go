package transition_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "hotel-reservation-engine/internal/cache/memory"
	"hotel-reservation-engine/internal/broker/inmemory"
	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/domain/transition"
	"hotel-reservation-engine/internal/repository/memory"
	"hotel-reservation-engine/pkg/errors"
	"hotel-reservation-engine/pkg/idgen"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

type fixedClock struct{ t time.Time }

func (f *fixedClock) Now() time.Time { return f.t }

func newExecutor(t *testing.T, clock idgen.Clock) (*transition.Executor, *memory.BookingRepository, *memory.RoomRepository) {
	t.Helper()
	rooms := memory.NewRoomRepository()
	bookings := memory.NewBookingRepository()
	cache := cachemem.New()
	proj := availability.NewProjector(bookings, rooms, cache, 5*time.Minute)
	bus := inmemory.New()
	ids := idgen.NewGenerator()

	exec := transition.NewExecutor(bookings, rooms, proj, bus, clock, ids, transition.DefaultConfig(), nil)
	return exec, bookings, rooms
}

func seedPendingBooking(t *testing.T, bookings *memory.BookingRepository, rooms *memory.RoomRepository, id string) booking.Booking {
	t.Helper()
	ctx := context.Background()

	_, err := rooms.Create(ctx, room.Room{
		ID: id + "-room", HotelID: "hotel-1", Number: "201",
		Type: room.Double, BasePrice: decimal.NewFromInt(200), Status: room.Available,
	})
	require.NoError(t, err)

	b := booking.Booking{
		ID: id, HotelID: "hotel-1", CustomerID: "cust-1", Status: booking.Pending,
		CheckIn: date(2026, 7, 15, 0), CheckOut: date(2026, 7, 18, 0),
		Rooms:   []booking.RoomRequest{{RoomType: room.Double, Count: 1}},
		Pricing: booking.PricingSnapshot{TotalAmount: decimal.NewFromInt(1000), Currency: "EUR"},
	}
	saved, err := bookings.Create(ctx, b)
	require.NoError(t, err)
	return saved
}

func TestExecutor_HappyPath_PendingToConfirmedToCheckedInToCompleted(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{t: date(2026, 7, 10, 9)}
	exec, bookings, rooms := newExecutor(t, clock)
	b := seedPendingBooking(t, bookings, rooms, "b1")

	admin := booking.Actor{ID: "admin-1", Role: booking.RoleAdmin}
	receptionist := booking.Actor{ID: "recept-1", Role: booking.RoleReceptionist}

	res, err := exec.Apply(ctx, transition.Request{BookingID: b.ID, Target: booking.Confirmed, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, booking.Confirmed, res.To)

	clock.t = date(2026, 7, 15, 10)
	roomID := b.ID + "-room"
	res, err = exec.Apply(ctx, transition.Request{
		BookingID: b.ID, Target: booking.CheckedIn, Actor: receptionist,
		RoomAssignments: []transition.RoomAssignment{{RoomRequestIndex: 0, RoomID: roomID}},
	})
	require.NoError(t, err)
	assert.Equal(t, booking.CheckedIn, res.To)

	r, err := rooms.GetByID(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, room.Occupied, r.Status)

	clock.t = date(2026, 7, 18, 11)
	res, err = exec.Apply(ctx, transition.Request{BookingID: b.ID, Target: booking.Completed, Actor: receptionist})
	require.NoError(t, err)
	assert.Equal(t, booking.Completed, res.To)

	r, err = rooms.GetByID(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, room.Available, r.Status)
}

func TestExecutor_IllegalTransition_BookingUnchanged(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{t: date(2026, 7, 10, 9)}
	exec, bookings, rooms := newExecutor(t, clock)
	b := seedPendingBooking(t, bookings, rooms, "b2")

	admin := booking.Actor{ID: "admin-1", Role: booking.RoleAdmin}
	_, err := exec.Apply(ctx, transition.Request{BookingID: b.ID, Target: booking.Confirmed, Actor: admin})
	require.NoError(t, err)
	_, err = exec.Apply(ctx, transition.Request{
		BookingID: b.ID, Target: booking.CheckedIn, Actor: admin,
		RoomAssignments: []transition.RoomAssignment{{RoomRequestIndex: 0, RoomID: b.ID + "-room"}},
	})
	require.NoError(t, err)
	_, err = exec.Apply(ctx, transition.Request{BookingID: b.ID, Target: booking.Completed, Actor: admin})
	require.NoError(t, err)

	_, err = exec.Apply(ctx, transition.Request{BookingID: b.ID, Target: booking.Pending, Actor: admin})
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)

	after, err := bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.Completed, after.Status)
}

func TestExecutor_ConcurrentConfirm_ExactlyOneCommits(t *testing.T) {
	ctx := context.Background()
	clock := &fixedClock{t: date(2026, 7, 10, 9)}
	exec, bookings, rooms := newExecutor(t, clock)
	b := seedPendingBooking(t, bookings, rooms, "b3")
	admin := booking.Actor{ID: "admin-1", Role: booking.RoleAdmin}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := exec.Apply(ctx, transition.Request{BookingID: b.ID, Target: booking.Confirmed, Actor: admin})
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes)

	after, err := bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.Confirmed, after.Status)
}

func TestExecutor_Cancellation_RefundBoundaries(t *testing.T) {
	ctx := context.Background()
	checkIn := date(2026, 7, 15, 8)
	clock := &fixedClock{t: date(2026, 7, 10, 9)}
	exec, bookings, rooms := newExecutor(t, clock)

	_, err := rooms.Create(ctx, room.Room{ID: "b4-room", HotelID: "hotel-1", Number: "1", Type: room.Double, BasePrice: decimal.NewFromInt(100), Status: room.Available})
	require.NoError(t, err)
	b := booking.Booking{
		ID: "b4", HotelID: "hotel-1", CustomerID: "cust-1", Status: booking.Confirmed,
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 3),
		Rooms:   []booking.RoomRequest{{RoomType: room.Double, Count: 1}},
		Pricing: booking.PricingSnapshot{TotalAmount: decimal.NewFromInt(1000), Currency: "EUR"},
	}
	_, err = bookings.Create(ctx, b)
	require.NoError(t, err)

	// Cancel at exactly 12h before check-in -> 50% refund.
	clock.t = checkIn.Add(-12 * time.Hour)
	res, err := exec.Apply(ctx, transition.Request{
		BookingID: "b4", Target: booking.Cancelled,
		Actor: booking.Actor{ID: "cust-1", Role: booking.RoleClient},
	})
	require.NoError(t, err)
	require.NotNil(t, res.BookingAfter.Cancellation)
	assert.Equal(t, 50, res.BookingAfter.Cancellation.RefundPercentage)
}

func TestExecutor_NoShow_RequiresWindowElapsed(t *testing.T) {
	ctx := context.Background()
	checkIn := date(2026, 7, 15, 8)
	clock := &fixedClock{t: checkIn.Add(23 * time.Hour)}
	exec, bookings, rooms := newExecutor(t, clock)

	_, err := rooms.Create(ctx, room.Room{ID: "b5-room", HotelID: "hotel-1", Number: "1", Type: room.Double, BasePrice: decimal.NewFromInt(100), Status: room.Available})
	require.NoError(t, err)
	b := booking.Booking{
		ID: "b5", HotelID: "hotel-1", CustomerID: "cust-1", Status: booking.Confirmed,
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2),
		Rooms:   []booking.RoomRequest{{RoomType: room.Double, Count: 1}},
	}
	_, err = bookings.Create(ctx, b)
	require.NoError(t, err)

	system := booking.Actor{ID: "scheduler", Role: booking.RoleSystem}
	_, err = exec.Apply(ctx, transition.Request{BookingID: "b5", Target: booking.NoShow, Actor: system})
	assert.ErrorIs(t, err, errors.ErrValidationFailed)

	clock.t = checkIn.Add(24*time.Hour + time.Second)
	_, err = exec.Apply(ctx, transition.Request{BookingID: "b5", Target: booking.NoShow, Actor: system})
	assert.NoError(t, err)
}
