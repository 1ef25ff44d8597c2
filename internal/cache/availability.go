package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityCache keeps the default-duration slot list per
// (barber, date) in redis for a short while. The engine itself stays
// pure; this sits strictly at the query surface and is invalidated
// whenever a booking on that day changes. All methods degrade to
// no-ops when redis is not configured, so callers never branch.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.rdb != nil
}

func key(barberID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", barberID, date)
}

func (c *AvailabilityCache) Get(ctx context.Context, barberID uint, date string) ([]string, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key(barberID, date)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, barberID uint, date string, slots []string) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key(barberID, date), raw, c.ttl).Err(); err != nil {
		c.log.Warn("availability cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached day after a booking was created, moved or
// cancelled on it.
func (c *AvailabilityCache) Invalidate(ctx context.Context, barberID uint, date string) {
	if !c.enabled() {
		return
	}

	if err := c.rdb.Del(ctx, key(barberID, date)).Err(); err != nil {
		c.log.Warn("availability cache invalidation failed", zap.Error(err))
	}
}
