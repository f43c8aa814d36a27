package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/intake"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/internal/repository/memory"
	"hotel-reservation-engine/pkg/idgen"
)

func newCreateRequest(hotelID, customerID string) booking.CreateRequest {
	checkIn := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	return booking.CreateRequest{
		HotelID:    hotelID,
		CustomerID: customerID,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 3),
		Rooms:      []booking.RequestedRoom{{RoomType: string(room.Double), Count: 1}},
	}
}

type fixedOccupancy struct{ pct float64 }

func (f fixedOccupancy) OccupancyPct(context.Context, string, string, time.Time) (float64, error) {
	return f.pct, nil
}

type fixedForecast struct {
	predicted  float64
	confidence float64
}

func (f fixedForecast) Forecast(context.Context, string, string, time.Time) (float64, float64, error) {
	return f.predicted, f.confidence, nil
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func newCreator(t *testing.T) (*intake.Creator, *memory.BookingRepository, *memory.HotelRepository, *memory.RoomRepository) {
	t.Helper()
	bookings := memory.NewBookingRepository()
	hotels := memory.NewHotelRepository()
	rooms := memory.NewRoomRepository()

	engine := pricing.NewEngine(
		pricing.DefaultConfig(),
		fixedForecast{predicted: 50, confidence: 0.5},
		fixedOccupancy{pct: 60},
		pricing.NoEventSource{},
	)

	clock := fixedClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	c := intake.NewCreator(bookings, rooms, hotels, engine, clock, idgen.NewGenerator())
	return c, bookings, hotels, rooms
}

func TestCreator_Create_HappyPath(t *testing.T) {
	ctx := context.Background()
	c, bookings, hotels, rooms := newCreator(t)

	_, err := hotels.Create(ctx, hotel.Hotel{ID: "hotel-1", Category: hotel.ThreeStar})
	require.NoError(t, err)
	_, err = rooms.Create(ctx, room.Room{
		ID: "room-1", HotelID: "hotel-1", Number: "101",
		Type: room.Double, BasePrice: decimal.NewFromInt(100), Status: room.Available,
	})
	require.NoError(t, err)

	b, err := c.Create(ctx, newCreateRequest("hotel-1", "cust-1"))
	require.NoError(t, err)

	assert.Equal(t, booking.Pending, b.Status)
	assert.NotEmpty(t, b.ID)
	assert.NotEmpty(t, b.Number)
	assert.True(t, b.Pricing.TotalAmount.GreaterThan(decimal.Zero))
	assert.True(t, b.Pricing.BaseAmount.GreaterThan(decimal.Zero))
	require.Len(t, b.History, 1)
	assert.Equal(t, booking.Pending, b.History[0].To)

	stored, err := bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, stored.ID)
}

func TestCreator_Create_RejectsCheckOutBeforeCheckIn(t *testing.T) {
	ctx := context.Background()
	c, _, hotels, _ := newCreator(t)
	_, err := hotels.Create(ctx, hotel.Hotel{ID: "hotel-1", Category: hotel.ThreeStar})
	require.NoError(t, err)

	req := newCreateRequest("hotel-1", "cust-1")
	req.CheckOut = req.CheckIn.AddDate(0, 0, -1)

	_, err = c.Create(ctx, req)
	require.Error(t, err)
}

func TestCreator_Create_RejectsUnknownRoomType(t *testing.T) {
	ctx := context.Background()
	c, _, hotels, _ := newCreator(t)
	_, err := hotels.Create(ctx, hotel.Hotel{ID: "hotel-1", Category: hotel.ThreeStar})
	require.NoError(t, err)

	req := newCreateRequest("hotel-1", "cust-1")
	req.Rooms[0].RoomType = "PENTHOUSE"

	_, err = c.Create(ctx, req)
	require.Error(t, err)
}

func TestCreator_Create_NoInventoryForRoomType(t *testing.T) {
	ctx := context.Background()
	c, _, hotels, _ := newCreator(t)
	_, err := hotels.Create(ctx, hotel.Hotel{ID: "hotel-1", Category: hotel.ThreeStar})
	require.NoError(t, err)

	_, err = c.Create(ctx, newCreateRequest("hotel-1", "cust-1"))
	require.Error(t, err)
}
