package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Memory is an in-process Cache used when no Redis server is reachable.
// It is size-bounded and honors TTLs the same way the Redis backend does.
type Memory struct {
	cache      *ristretto.Cache
	defaultTTL time.Duration
}

// memoryItem wraps the data with its expiration time.
type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// NewMemory creates an in-process cache. defaultTTL applies when Set is
// called with a TTL of 0.
func NewMemory(defaultTTL time.Duration) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     32 << 20, // 32 MB, far more than the dataset needs
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{cache: c, defaultTTL: defaultTTL}, nil
}

// Get retrieves a value by key, dropping expired entries.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	item, ok := val.(*memoryItem)
	if !ok {
		c.cache.Del(key)
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		c.cache.Del(key)
		return nil, false, nil
	}
	return item.data, true, nil
}

// Set stores a value. The write is flushed before returning so that an
// immediate Get observes it.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	item := &memoryItem{data: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	c.cache.Set(key, item, int64(len(value)))
	c.cache.Wait()
	return nil
}

// Close releases the cache's internal resources.
func (c *Memory) Close() error {
	c.cache.Close()
	return nil
}
