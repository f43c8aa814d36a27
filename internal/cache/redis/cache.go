// Package redis implements the L2 tier of the availability.Cache port
// over go-redis/v9, matching the teacher's cache/redis adapter: a
// thin JSON-over-redis.Client wrapper, version counters kept in a
// separate key per hotel via INCR.
package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/pkg/log"
)

const versionKeyPrefix = "avail:version:"

// Cache is an availability.Cache backed by a shared Redis instance,
// suitable as the L2 tier behind an in-process L1 (internal/cache/memory)
// in a multi-process deployment.
type Cache struct {
	client *goredis.Client
}

// New wraps an already-configured *goredis.Client.
func New(client *goredis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key availability.CacheKey) (availability.Entry, bool) {
	raw, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.FromContext(ctx).Warn("redis availability cache get failed")
		}
		return availability.Entry{}, false
	}
	var entry availability.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return availability.Entry{}, false
	}
	return entry, true
}

func (c *Cache) Set(ctx context.Context, key availability.CacheKey, entry availability.Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key.String(), raw, ttl).Err()
}

func (c *Cache) InvalidateHotel(ctx context.Context, hotelID string) (uint64, error) {
	n, err := c.client.Incr(ctx, versionKeyPrefix+hotelID).Result()
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (c *Cache) CurrentVersion(ctx context.Context, hotelID string) (uint64, error) {
	v, err := c.client.Get(ctx, versionKeyPrefix+hotelID).Uint64()
	if err != nil {
		if err == goredis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

var _ availability.Cache = (*Cache)(nil)
