// Package intake implements CreateBooking (spec §6 "Booking commands"),
// the one external-interface command that had no domain implementation:
// Transition, GetAvailability, and QuotePrice are each backed by a
// constructor-injected service (transition.Executor,
// availability.Projector, pricing.Engine); Creator is the fourth,
// assembling a PENDING Booking from a booking.CreateRequest the same
// way transition.Executor assembles a state change from a
// transition.Request.
package intake

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/pkg/errors"
	"hotel-reservation-engine/pkg/idgen"
)

// Creator validates a booking.CreateRequest, prices it through the
// Pricing Engine, and persists the resulting PENDING Booking (spec §6
// CreateBooking; spec §3 "created by customer in PENDING").
type Creator struct {
	bookings booking.Repository
	rooms    room.Repository
	hotels   hotel.Repository
	pricing  *pricing.Engine
	clock    idgen.Clock
	ids      *idgen.Generator
}

// NewCreator constructs a Creator.
func NewCreator(bookings booking.Repository, rooms room.Repository, hotels hotel.Repository, pricingEngine *pricing.Engine, clock idgen.Clock, ids *idgen.Generator) *Creator {
	return &Creator{bookings: bookings, rooms: rooms, hotels: hotels, pricing: pricingEngine, clock: clock, ids: ids}
}

// Create validates req, quotes every requested room line item through
// the Pricing Engine, and persists a new Booking in PENDING.
func (c *Creator) Create(ctx context.Context, req booking.CreateRequest) (booking.Booking, error) {
	if err := validate(req); err != nil {
		return booking.Booking{}, err
	}

	h, err := c.hotels.GetByID(ctx, req.HotelID)
	if err != nil {
		return booking.Booking{}, err
	}

	now := c.clock.Now()

	roomLines := make([]booking.RoomRequest, 0, len(req.Rooms))
	baseAmount := decimal.Zero
	totalAmount := decimal.Zero

	for _, line := range req.Rooms {
		roomType := room.Type(line.RoomType)

		basePrice, err := c.lookupBasePrice(ctx, req.HotelID, roomType)
		if err != nil {
			return booking.Booking{}, err
		}

		quote, err := c.pricing.Quote(ctx, pricing.Request{
			Hotel: h, RoomType: roomType, BasePrice: basePrice, RoomCount: line.Count,
			CheckIn: req.CheckIn, CheckOut: req.CheckOut, BookingDate: now,
			YieldEnabled: true,
		})
		if err != nil {
			return booking.Booking{}, err
		}

		roomLines = append(roomLines, booking.RoomRequest{
			RoomType:                roomType,
			Count:                   line.Count,
			BasePriceSnapshot:       basePrice,
			CalculatedPriceSnapshot: quote.TotalAmount,
		})
		baseAmount = baseAmount.Add(basePrice.Mul(decimal.NewFromInt(int64(line.Count * quoteNights(req)))))
		totalAmount = totalAmount.Add(quote.TotalAmount)
	}

	b := booking.Booking{
		ID:         c.ids.NewBookingID(),
		Number:     c.ids.NewBookingNumber(now),
		CustomerID: req.CustomerID,
		CompanyID:  req.CompanyID,
		HotelID:    req.HotelID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Rooms:      roomLines,
		Pricing: booking.PricingSnapshot{
			BaseAmount:  baseAmount,
			TotalAmount: totalAmount,
			Currency:    "XAF",
		},
		Status:    booking.Pending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.AppendHistory(booking.HistoryEntry{To: booking.Pending, Reason: "created", Actor: booking.Actor{ID: req.CustomerID, Role: booking.RoleClient}, At: now})

	return c.bookings.Create(ctx, b)
}

func quoteNights(req booking.CreateRequest) int {
	nights := int(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// lookupBasePrice resolves the per-night base price for roomType at
// hotelID from one representative room, mirroring how the Scheduler's
// Price-refresh job enumerates inventory (internal/app's
// hotelRoomTypesFn).
func (c *Creator) lookupBasePrice(ctx context.Context, hotelID string, roomType room.Type) (decimal.Decimal, error) {
	rooms, err := c.rooms.ListByHotelAndType(ctx, hotelID, roomType)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(rooms) == 0 {
		return decimal.Decimal{}, errors.ErrValidationFailed.WithMessage(fmt.Sprintf("hotel has no %s rooms", roomType))
	}
	return rooms[0].BasePrice, nil
}

func validate(req booking.CreateRequest) error {
	if req.HotelID == "" {
		return errors.ErrValidationFailed.WithMessage("hotel is required")
	}
	if req.CustomerID == "" {
		return errors.ErrValidationFailed.WithMessage("customer is required")
	}
	if !req.CheckIn.Before(req.CheckOut) {
		return errors.ErrValidationFailed.WithMessage("check-in must be before check-out")
	}
	if len(req.Rooms) == 0 {
		return errors.ErrValidationFailed.WithMessage("at least one room is required")
	}
	for _, line := range req.Rooms {
		if line.Count <= 0 {
			return errors.ErrValidationFailed.WithMessage("room count must be positive")
		}
		if !room.Type(line.RoomType).Valid() {
			return errors.ErrValidationFailed.WithMessage("unknown room type: " + line.RoomType)
		}
	}
	return nil
}
