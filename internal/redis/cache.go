package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medicore/clinic-scheduling/internal/scheduling"
)

// AvailabilityCache caches the open-slot view per doctor. It is a pure
// read optimization: misses and redis errors both fall through to the
// store, and the scheduler invalidates the doctor's key on every
// booking, slot publication and cancellation.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func key(doctorID uuid.UUID) string {
	return fmt.Sprintf("avail:doctor:%s", doctorID.String())
}

func (c *AvailabilityCache) Get(ctx context.Context, doctorID uuid.UUID) ([]scheduling.SlotView, bool) {
	data, err := c.client.Get(ctx, key(doctorID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Str("doctor_id", doctorID.String()).Msg("availability cache read failed")
		}
		return nil, false
	}

	var views []scheduling.SlotView
	if err := json.Unmarshal(data, &views); err != nil {
		c.log.Warn().Err(err).Str("doctor_id", doctorID.String()).Msg("availability cache entry corrupt, dropping")
		_ = c.client.Del(ctx, key(doctorID)).Err()
		return nil, false
	}
	return views, true
}

func (c *AvailabilityCache) Set(ctx context.Context, doctorID uuid.UUID, views []scheduling.SlotView) {
	data, err := json.Marshal(views)
	if err != nil {
		c.log.Warn().Err(err).Msg("availability cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key(doctorID), data, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("doctor_id", doctorID.String()).Msg("availability cache write failed")
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, doctorID uuid.UUID) {
	if err := c.client.Del(ctx, key(doctorID)).Err(); err != nil {
		// A stale entry survives until TTL; worth a warning but not a failure.
		c.log.Warn().Err(err).Str("doctor_id", doctorID.String()).Msg("availability cache invalidation failed")
	}
}
