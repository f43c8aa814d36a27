package availability

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/pkg/log"
)

// overlappingStatuses are the booking statuses that hold inventory
// against the physical count (spec §4.3).
var overlappingStatuses = []booking.Status{booking.Confirmed, booking.CheckedIn}

// Projector answers availability queries by combining the physical
// room count with overlapping bookings (spec §4.3). It never writes
// to bookings or rooms; the Transition Executor invalidates its cache
// after a write that could change a hotel's availability.
type Projector struct {
	bookings booking.Repository
	rooms    room.Repository
	cache    Cache
	ttl      time.Duration
}

// NewProjector constructs a Projector. ttl bounds cache staleness
// (spec §4.3 "TTL <= 5 minutes").
func NewProjector(bookings booking.Repository, rooms room.Repository, cache Cache, ttl time.Duration) *Projector {
	return &Projector{bookings: bookings, rooms: rooms, cache: cache, ttl: ttl}
}

// Compute answers q, consulting the cache unless bypassCache is true
// (spec §4.3 "callers performing a confirmation MUST bypass the
// cache").
func (p *Projector) Compute(ctx context.Context, q Query, bypassCache bool) (Result, error) {
	logger := log.FromContext(ctx)
	key := CacheKey{HotelID: q.HotelID, RoomType: q.RoomType, CheckIn: q.CheckIn, CheckOut: q.CheckOut}

	currentVersion, verr := p.currentVersion(ctx, q.HotelID)
	if verr != nil {
		logger.Warn("availability: version lookup failed, treating as uncached")
	}

	if !bypassCache {
		if entry, ok := p.cache.Get(ctx, key); ok {
			result := entry.Result
			result.Stale = verr == nil && entry.Version < currentVersion
			result.Available = result.MinFree() >= q.RoomsNeeded
			return result, nil
		}
	}

	result, err := p.computeLive(ctx, q)
	if err != nil {
		return Result{}, err
	}

	if !bypassCache {
		_ = p.cache.Set(ctx, key, Entry{Result: result, Version: currentVersion}, p.ttl)
	}
	return result, nil
}

func (p *Projector) currentVersion(ctx context.Context, hotelID string) (uint64, error) {
	return p.cache.CurrentVersion(ctx, hotelID)
}

// Invalidate bumps hotelID's cache version, used by the Transition
// Executor after a commit that changes availability (spec §4.2 step 9,
// §4.3).
func (p *Projector) Invalidate(ctx context.Context, hotelID string) error {
	_, err := p.cache.InvalidateHotel(ctx, hotelID)
	return err
}

// computeLive performs the free(d) computation of spec §4.3 with no
// cache involvement.
func (p *Projector) computeLive(ctx context.Context, q Query) (Result, error) {
	bookable, err := p.rooms.CountBookable(ctx, q.HotelID, q.RoomType)
	if err != nil {
		return Result{}, err
	}

	overlapping, err := p.bookings.ListOverlapping(ctx, q.HotelID, string(q.RoomType), q.CheckIn, q.CheckOut, overlappingStatuses)
	if err != nil {
		return Result{}, err
	}

	perNight := make([]NightlyFree, 0, nights(q.CheckIn, q.CheckOut))
	for d := q.CheckIn; d.Before(q.CheckOut); d = d.AddDate(0, 0, 1) {
		held := 0
		for _, b := range overlapping {
			if b.ID == q.Exclude {
				continue
			}
			if !overlapsDate(b.CheckIn, b.CheckOut, d) {
				continue
			}
			held += roomsOfType(b, q.RoomType)
		}
		perNight = append(perNight, NightlyFree{Date: d, Free: bookable - held})
	}

	result := Result{PerNight: perNight}
	result.Available = result.MinFree() >= q.RoomsNeeded
	return result, nil
}

// overlapsDate reports whether [bi, bo) overlaps date d per spec
// §4.3's overlap definition: bi <= d < bo.
func overlapsDate(bi, bo, d time.Time) bool {
	return !d.Before(bi) && d.Before(bo)
}

func roomsOfType(b booking.Booking, t room.Type) int {
	n := 0
	for _, r := range b.Rooms {
		if r.RoomType == t {
			n += r.Count
		}
	}
	return n
}

func nights(in, out time.Time) int {
	n := int(out.Sub(in).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
