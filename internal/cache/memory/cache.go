// Package memory implements the in-process L1 tier of the
// availability.Cache port using patrickmn/go-cache, matching the
// teacher's cache/memory adapter (a thin wrapper exposing the
// domain-level cache interface over a third-party in-process cache
// rather than a hand-rolled map+TTL).
package memory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"hotel-reservation-engine/internal/domain/availability"
)

// Cache is an in-process availability.Cache backed by go-cache for
// entries and a plain mutex-guarded map for per-hotel versions.
type Cache struct {
	entries *gocache.Cache

	mu       sync.Mutex
	versions map[string]uint64
}

// New returns a Cache with no default expiration beyond what callers
// pass to Set, and a cleanup sweep every minute.
func New() *Cache {
	return &Cache{
		entries:  gocache.New(gocache.NoExpiration, time.Minute),
		versions: make(map[string]uint64),
	}
}

func (c *Cache) Get(_ context.Context, key availability.CacheKey) (availability.Entry, bool) {
	v, ok := c.entries.Get(key.String())
	if !ok {
		return availability.Entry{}, false
	}
	entry, ok := v.(availability.Entry)
	return entry, ok
}

func (c *Cache) Set(_ context.Context, key availability.CacheKey, entry availability.Entry, ttl time.Duration) error {
	c.entries.Set(key.String(), entry, ttl)
	return nil
}

func (c *Cache) InvalidateHotel(_ context.Context, hotelID string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[hotelID]++
	return c.versions[hotelID], nil
}

func (c *Cache) CurrentVersion(_ context.Context, hotelID string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[hotelID], nil
}

var _ availability.Cache = (*Cache)(nil)
