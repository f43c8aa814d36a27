package availability

import (
	"context"
	"fmt"
	"time"

	"hotel-reservation-engine/internal/domain/room"
)

// CacheKey identifies one cached Result (spec §4.3 "cached per (hotel,
// in, out, type)").
type CacheKey struct {
	HotelID  string
	RoomType room.Type
	CheckIn  time.Time
	CheckOut time.Time
}

// String renders a stable string form suitable for a Redis key or an
// in-process map key.
func (k CacheKey) String() string {
	return fmt.Sprintf("avail:%s:%s:%d:%d", k.HotelID, k.RoomType, k.CheckIn.Unix(), k.CheckOut.Unix())
}

// Entry is one cached Result plus the hotel-wide version it was
// computed against (spec §4.3/§5 monotonic-view requirement).
type Entry struct {
	Result  Result
	Version uint64
}

// Cache is the two-tier availability cache port (SPEC_FULL §2):
// internal/cache/memory implements an in-process L1 and
// internal/cache/redis an L2, both satisfying this same interface so
// a single-process deployment can run L1 alone.
type Cache interface {
	// Get returns the cached entry for key, or ok=false on miss.
	Get(ctx context.Context, key CacheKey) (entry Entry, ok bool)

	// Set stores entry for key with the given TTL.
	Set(ctx context.Context, key CacheKey, entry Entry, ttl time.Duration) error

	// InvalidateHotel bumps the version counter for hotelID and
	// returns the new version. Existing entries are not evicted
	// eagerly; a Get against a stale version is detected by the
	// Projector via Entry.Version and reported with Result.Stale=true,
	// per spec §4.3.
	InvalidateHotel(ctx context.Context, hotelID string) (newVersion uint64, err error)

	// CurrentVersion returns the hotel's current version without
	// bumping it.
	CurrentVersion(ctx context.Context, hotelID string) (uint64, error)
}
