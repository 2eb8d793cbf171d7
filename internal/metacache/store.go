package metacache

import (
	"context"
	"sync"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// StoreConfig sizes the in-process store.
type StoreConfig struct {
	Capacity           int
	Shards             int
	TTL                time.Duration
	EvictionPercentage int
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.Capacity <= 0 {
		c.Capacity = 10000
	}
	if c.Shards <= 0 {
		c.Shards = 10
	}
	if c.TTL <= 0 {
		c.TTL = time.Hour
	}
	if c.EvictionPercentage <= 0 {
		c.EvictionPercentage = 10
	}
	return c
}

// SturdyStore implements interfaces.CacheProvider on a sturdyc client.
// Entries share the store TTL; the per-call TTL argument is ignored.
type SturdyStore struct {
	mu     sync.RWMutex
	cfg    StoreConfig
	client *sturdyc.Client[any]
}

var _ interfaces.CacheProvider = (*SturdyStore)(nil)

// NewSturdyStore builds a sharded in-memory store.
func NewSturdyStore(cfg StoreConfig) *SturdyStore {
	cfg = cfg.withDefaults()
	return &SturdyStore{cfg: cfg, client: newClient(cfg)}
}

func newClient(cfg StoreConfig) *sturdyc.Client[any] {
	return sturdyc.New[any](cfg.Capacity, cfg.Shards, cfg.TTL, cfg.EvictionPercentage)
}

func (s *SturdyStore) Get(_ context.Context, key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.client.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return value, nil
}

func (s *SturdyStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.client.Set(key, value)
	return nil
}

func (s *SturdyStore) Delete(_ context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.client.Delete(key)
	return nil
}

// Clear swaps in a fresh client.
func (s *SturdyStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = newClient(s.cfg)
	return nil
}

// NoopStore never retains anything. It backs the cache when caching is disabled.
type NoopStore struct{}

var _ interfaces.CacheProvider = NoopStore{}

func (NoopStore) Get(context.Context, string) (any, error) { return nil, interfaces.ErrCacheMiss }

func (NoopStore) Set(context.Context, string, any, time.Duration) error { return nil }

func (NoopStore) Delete(context.Context, string) error { return nil }

func (NoopStore) Clear(context.Context) error { return nil }
