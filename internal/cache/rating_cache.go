// Package cache holds the redis-backed projection cache for title
// ratings. The database stays the source of truth; the cache only
// absorbs read traffic on hot titles.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCache connects to redis and verifies the connection. A nil
// receiver or nil client degrades every method to a no-op, so the API
// runs without redis in development and tests.
func NewRatingCache(addr, password string, ttl time.Duration) (*RatingCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RatingCache{client: rdb, ttl: ttl}, nil
}

func key(titleID int64) string {
	return fmt.Sprintf("rating:title:%d", titleID)
}

// Get returns (rating, found). A cached "none" marker comes back as
// (nil, true) so callers can distinguish "no reviews" from a cache miss.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (*float64, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key(titleID)).Result()
	if err != nil {
		return nil, false
	}
	if val == "none" {
		return nil, true
	}
	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, false
	}
	return &rating, true
}

// Set stores the freshly computed rating; nil is stored as the "none"
// marker.
func (c *RatingCache) Set(ctx context.Context, titleID int64, rating *float64) error {
	if c == nil || c.client == nil {
		return nil
	}
	val := "none"
	if rating != nil {
		val = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	return c.client.Set(ctx, key(titleID), val, c.ttl).Err()
}

// Invalidate drops the entry after a review mutation.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(titleID)).Err()
}

func (c *RatingCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
