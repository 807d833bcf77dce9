package cache

import (
	"context"
	"time"
)

// Cache is the interface for the lookup cache. Values are serialized records;
// the store owns expiry.
type Cache interface {
	// Get retrieves a value by key. A miss is (nil, false, nil) — absent is
	// not an error. A non-nil error means the store itself failed.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. TTL of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
