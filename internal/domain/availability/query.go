// Package availability implements the Availability Projector (spec
// §4.3): answering "how many rooms of a type are free for a date
// range" by combining the physical room count with overlapping
// CONFIRMED/CHECKED_IN bookings, behind a bounded-staleness cache.
//
// Grounded on the teacher's layered domain/repository/cache split
// (internal/domain/author's {repository,cache}.go pair): this package
// owns the projection logic and depends only on the booking.Repository
// and room.Repository ports plus its own Cache port, never on a
// concrete backend.
package availability

import (
	"time"

	"hotel-reservation-engine/internal/domain/room"
)

// Query is the input to Projector.Compute (spec §4.3
// "availability(hotel, type?, in, out, rooms-needed, exclude?)").
type Query struct {
	HotelID     string
	RoomType    room.Type
	CheckIn     time.Time
	CheckOut    time.Time
	RoomsNeeded int

	// Exclude, if non-empty, is a booking ID whose own room
	// reservations must not count against availability — set by the
	// PENDING→CONFIRMED availability guard for the booking under
	// evaluation.
	Exclude string
}

// NightlyFree is the free(d) count for one date in [CheckIn, CheckOut).
type NightlyFree struct {
	Date time.Time
	Free int
}

// Result is the output of Projector.Compute (spec §4.3).
type Result struct {
	Available bool
	PerNight  []NightlyFree

	// Stale is true when this Result was served from a cache entry
	// computed against an older hotel version than the current one,
	// i.e. the hotel was invalidated after the entry was cached.
	// Entries past their TTL are evicted by the cache and recomputed,
	// never served.
	Stale bool
}

// MinFree returns the minimum free(d) across PerNight, the quantity
// spec §4.3's availability predicate thresholds against RoomsNeeded.
func (r Result) MinFree() int {
	if len(r.PerNight) == 0 {
		return 0
	}
	min := r.PerNight[0].Free
	for _, n := range r.PerNight[1:] {
		if n.Free < min {
			min = n.Free
		}
	}
	return min
}
