package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "hotel-reservation-engine/internal/cache/memory"
	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/repository/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProjector_ComputeLive_ExactBoundary(t *testing.T) {
	ctx := context.Background()
	rooms := memory.NewRoomRepository()
	bookings := memory.NewBookingRepository()
	cache := cachemem.New()

	for i := 0; i < 3; i++ {
		_, err := rooms.Create(ctx, room.Room{
			ID: uuidFor(i), HotelID: "hotel-1", Number: uuidFor(i),
			Type: room.Double, BasePrice: decimal.NewFromInt(100), Status: room.Available,
		})
		require.NoError(t, err)
	}

	existing := booking.Booking{
		ID: "existing-1", HotelID: "hotel-1", Status: booking.Confirmed,
		CheckIn: date(2026, 8, 1), CheckOut: date(2026, 8, 5),
		Rooms: []booking.RoomRequest{{RoomType: room.Double, Count: 2}},
	}
	_, err := bookings.Create(ctx, existing)
	require.NoError(t, err)

	proj := availability.NewProjector(bookings, rooms, cache, 5*time.Minute)

	// Exactly at free count (3 bookable - 2 held = 1 free; need 1).
	res, err := proj.Compute(ctx, availability.Query{
		HotelID: "hotel-1", RoomType: room.Double,
		CheckIn: date(2026, 8, 1), CheckOut: date(2026, 8, 5),
		RoomsNeeded: 1,
	}, true)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 1, res.MinFree())

	// One more than the free count must not be available.
	res, err = proj.Compute(ctx, availability.Query{
		HotelID: "hotel-1", RoomType: room.Double,
		CheckIn: date(2026, 8, 1), CheckOut: date(2026, 8, 5),
		RoomsNeeded: 2,
	}, true)
	require.NoError(t, err)
	assert.False(t, res.Available)
}

func TestProjector_OverlapDefinition_CheckOutDayIsFree(t *testing.T) {
	ctx := context.Background()
	rooms := memory.NewRoomRepository()
	bookings := memory.NewBookingRepository()
	cache := cachemem.New()

	_, err := rooms.Create(ctx, room.Room{
		ID: "r1", HotelID: "hotel-1", Number: "101",
		Type: room.Suite, BasePrice: decimal.NewFromInt(200), Status: room.Available,
	})
	require.NoError(t, err)

	existing := booking.Booking{
		ID: "existing-2", HotelID: "hotel-1", Status: booking.Confirmed,
		CheckIn: date(2026, 9, 1), CheckOut: date(2026, 9, 3),
		Rooms: []booking.RoomRequest{{RoomType: room.Suite, Count: 1}},
	}
	_, err = bookings.Create(ctx, existing)
	require.NoError(t, err)

	proj := availability.NewProjector(bookings, rooms, cache, 5*time.Minute)

	// A stay starting exactly on the existing booking's checkout date
	// does not overlap it (bi <= d < bo excludes d == bo).
	res, err := proj.Compute(ctx, availability.Query{
		HotelID: "hotel-1", RoomType: room.Suite,
		CheckIn: date(2026, 9, 3), CheckOut: date(2026, 9, 5),
		RoomsNeeded: 1,
	}, true)
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestProjector_Cache_StaleFlagAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	rooms := memory.NewRoomRepository()
	bookings := memory.NewBookingRepository()
	cache := cachemem.New()

	_, err := rooms.Create(ctx, room.Room{
		ID: "r2", HotelID: "hotel-2", Number: "201",
		Type: room.Simple, BasePrice: decimal.NewFromInt(50), Status: room.Available,
	})
	require.NoError(t, err)

	proj := availability.NewProjector(bookings, rooms, cache, 5*time.Minute)
	q := availability.Query{
		HotelID: "hotel-2", RoomType: room.Simple,
		CheckIn: date(2026, 10, 1), CheckOut: date(2026, 10, 2),
		RoomsNeeded: 1,
	}

	res, err := proj.Compute(ctx, q, false)
	require.NoError(t, err)
	assert.False(t, res.Stale)

	_, err = cache.InvalidateHotel(ctx, "hotel-2")
	require.NoError(t, err)

	res, err = proj.Compute(ctx, q, false)
	require.NoError(t, err)
	assert.True(t, res.Stale)
}

func uuidFor(i int) string {
	return "room-" + string(rune('a'+i))
}
