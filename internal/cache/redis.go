package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skylinehq/flightbooking/config"
	"github.com/skylinehq/flightbooking/internal/domain"
)

type RedisCache struct {
	client    *redis.Client
	flightTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightTTL: flightTTL,
	}
}

// GetFlight returns a cached flight detail or nil on a miss.
func (c *RedisCache) GetFlight(ctx context.Context, flightID int64) (*domain.FlightDetail, error) {
	data, err := c.client.Get(ctx, flightKey(flightID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flight domain.FlightDetail
	if err := json.Unmarshal(data, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *RedisCache) SetFlight(ctx context.Context, flight *domain.FlightDetail) error {
	payload, err := json.Marshal(flight)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightKey(flight.ID), payload, c.flightTTL).Err()
}

// AcquirePaymentKey claims an idempotency key for a payment attempt. It
// returns false when the key was already claimed by an earlier request.
func (c *RedisCache) AcquirePaymentKey(ctx context.Context, bookingID int64, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, paymentKey(bookingID, key), "claimed", ttl).Result()
}

func flightKey(flightID int64) string {
	return fmt.Sprintf("cache:flight:%d", flightID)
}

func paymentKey(bookingID int64, key string) string {
	return fmt.Sprintf("idem:payment:%d:%s", bookingID, key)
}
