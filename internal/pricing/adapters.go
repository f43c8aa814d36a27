// Package pricing adapts the Availability Projector and the Booking
// Store to the two storage-facing ports internal/domain/pricing.Engine
// needs (OccupancySource, pricing.HistorySource), so the Engine itself
// stays free of any repository dependency. Grounded on
// internal/domain/availability.Projector.computeLive's own
// CountBookable/ListOverlapping combination, reused here rather than
// duplicated.
package pricing

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"
)

// OccupancySource implements pricing.OccupancySource over the
// Inventory Store and Booking Store directly (not through the
// Projector's cache, since a stale occupancy reading would skew
// M_occ — pricing always wants the live figure).
type OccupancySource struct {
	bookings booking.Repository
	rooms    room.Repository
}

// NewOccupancySource constructs an OccupancySource.
func NewOccupancySource(bookings booking.Repository, rooms room.Repository) *OccupancySource {
	return &OccupancySource{bookings: bookings, rooms: rooms}
}

var overlappingStatuses = []booking.Status{booking.Confirmed, booking.CheckedIn}

// OccupancyPct reports the percentage of bookable rooms of roomType
// at hotelID held by an overlapping booking on date (spec §4.4 M_occ).
func (s *OccupancySource) OccupancyPct(ctx context.Context, hotelID string, roomType string, date time.Time) (float64, error) {
	t := room.Type(roomType)

	bookable, err := s.rooms.CountBookable(ctx, hotelID, t)
	if err != nil {
		return 0, err
	}
	if bookable == 0 {
		return 0, nil
	}

	nextDay := date.AddDate(0, 0, 1)
	overlapping, err := s.bookings.ListOverlapping(ctx, hotelID, roomType, date, nextDay, overlappingStatuses)
	if err != nil {
		return 0, err
	}

	held := 0
	for _, b := range overlapping {
		for _, r := range b.Rooms {
			if r.RoomType == t {
				held += r.Count
			}
		}
	}

	pct := float64(held) / float64(bookable) * 100
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// HistorySource implements pricing.HistorySource by replaying
// OccupancySource.OccupancyPct on the same weekday, weeks-ago weeks
// back, for the WeightedMovingAverageForecaster (spec §4.4 "prior 12
// weeks, same weekday").
type HistorySource struct {
	occupancy *OccupancySource
}

// NewHistorySource constructs a HistorySource over occ.
func NewHistorySource(occ *OccupancySource) *HistorySource {
	return &HistorySource{occupancy: occ}
}

func (h *HistorySource) WeeklyOccupancy(ctx context.Context, hotelID string, roomType string, date time.Time, weeks int) ([]pricing.WeeklySample, error) {
	samples := make([]pricing.WeeklySample, 0, weeks)
	for w := 1; w <= weeks; w++ {
		past := date.AddDate(0, 0, -7*w)
		pct, err := h.occupancy.OccupancyPct(ctx, hotelID, roomType, past)
		if err != nil {
			return nil, err
		}
		samples = append(samples, pricing.WeeklySample{WeeksAgo: w, OccupancyPct: pct})
	}
	return samples, nil
}
