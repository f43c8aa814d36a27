// Package cache composes the L1 (internal/cache/memory) and L2
// (internal/cache/redis) tiers behind the single availability.Cache
// port SPEC_FULL §2 describes: reads check L1 first, falling through
// to L2 and backfilling L1 on a hit; writes go to both tiers so a
// second process sharing the same Redis sees an entry this process
// wrote. A single-process deployment can run memory.Cache alone
// against the same port, so TwoTier only exists to save the L2
// round-trip once the entry has been seen locally.
package cache

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/availability"
)

// backfillTTL bounds how long an L2 hit is allowed to live in L1: the
// L2 entry's own remaining TTL isn't visible through the Cache port,
// so a short, fixed backfill TTL avoids serving a stale L1 copy long
// after Redis would have expired it.
const backfillTTL = 30 * time.Second

// TwoTier is an availability.Cache backed by an in-process L1 in
// front of a shared L2.
type TwoTier struct {
	l1 availability.Cache
	l2 availability.Cache
}

// NewTwoTier constructs a TwoTier over l1 and l2. Version operations
// (InvalidateHotel/CurrentVersion) are delegated to l2 alone, since
// the hotel-wide version counter must be visible across every process
// sharing the cache, not just the one that bumped it.
func NewTwoTier(l1, l2 availability.Cache) *TwoTier {
	return &TwoTier{l1: l1, l2: l2}
}

func (t *TwoTier) Get(ctx context.Context, key availability.CacheKey) (availability.Entry, bool) {
	if entry, ok := t.l1.Get(ctx, key); ok {
		return entry, true
	}
	entry, ok := t.l2.Get(ctx, key)
	if !ok {
		return availability.Entry{}, false
	}
	_ = t.l1.Set(ctx, key, entry, backfillTTL)
	return entry, true
}

func (t *TwoTier) Set(ctx context.Context, key availability.CacheKey, entry availability.Entry, ttl time.Duration) error {
	_ = t.l1.Set(ctx, key, entry, ttl)
	return t.l2.Set(ctx, key, entry, ttl)
}

func (t *TwoTier) InvalidateHotel(ctx context.Context, hotelID string) (uint64, error) {
	return t.l2.InvalidateHotel(ctx, hotelID)
}

func (t *TwoTier) CurrentVersion(ctx context.Context, hotelID string) (uint64, error) {
	return t.l2.CurrentVersion(ctx, hotelID)
}
