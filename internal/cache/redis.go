package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Parsherm/country-finder/internal/domain"
)

// Redis is a Cache backed by a Redis server.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a Redis cache client for the given address.
func NewRedis(addr string, db int) *Redis {
	return &Redis{
		rdb: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// Ping checks that the Redis server is reachable.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping: %v", domain.ErrUnavailable, err)
	}
	return nil
}

// Get retrieves a value by key. A missing key is a miss, not an error.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis get: %v", domain.ErrUnavailable, err)
	}
	return val, true, nil
}

// Set stores a value with the given TTL.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", domain.ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.rdb.Close()
}
