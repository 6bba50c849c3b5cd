package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

// Cache holds booked intervals per salon and date.
type Cache interface {
	Get(ctx context.Context, salonID, date string) ([]models.BookedInterval, bool, error)
	Set(ctx context.Context, salonID, date string, intervals []models.BookedInterval) error
	Invalidate(ctx context.Context, salonID, date string) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(salonID, date string) string {
	return fmt.Sprintf("availability:%s:%s", salonID, date)
}

func (c *RedisCache) Get(ctx context.Context, salonID, date string) ([]models.BookedInterval, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(salonID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("availability cache get: %w", err)
	}
	var intervals []models.BookedInterval
	if err := json.Unmarshal(raw, &intervals); err != nil {
		return nil, false, fmt.Errorf("availability cache decode: %w", err)
	}
	return intervals, true, nil
}

func (c *RedisCache) Set(ctx context.Context, salonID, date string, intervals []models.BookedInterval) error {
	if intervals == nil {
		intervals = []models.BookedInterval{}
	}
	raw, err := json.Marshal(intervals)
	if err != nil {
		return fmt.Errorf("availability cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(salonID, date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("availability cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, salonID, date string) error {
	if err := c.client.Del(ctx, cacheKey(salonID, date)).Err(); err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}
	return nil
}
