package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss reports that a key is not present in the cache.
var ErrCacheMiss = errors.New("cache: miss")

// CacheProvider is the key/value contract used by the metadata cache.
// Get returns ErrCacheMiss when the key is absent or expired.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
