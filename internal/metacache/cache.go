package metacache

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

const (
	pagePrefix    = "page:"
	sectionPrefix = "section:"
)

// Cache holds page and section definitions keyed by page key and section id.
// Entries are replaced wholesale and handed out as copies, so readers never
// observe a partially written definition.
type Cache struct {
	store  interfaces.CacheProvider
	ttl    time.Duration
	logger interfaces.Logger
}

// Option customises the cache.
type Option func(*Cache)

// WithTTL sets the TTL passed to the store.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithLogger sets the cache logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wraps store. A nil store disables caching.
func New(store interfaces.CacheProvider, opts ...Option) *Cache {
	if store == nil {
		store = NoopStore{}
	}
	c := &Cache{store: store, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPage returns the cached page for orgScope and name.
func (c *Cache) GetPage(ctx context.Context, orgScope, name string) (*pages.Page, bool) {
	value, ok := c.get(ctx, pagePrefix+pages.Key(orgScope, name))
	if !ok {
		return nil, false
	}
	page, ok := value.(*pages.Page)
	if !ok {
		return nil, false
	}
	return page.Clone(), true
}

// PutPage stores a copy of page under its organization scope and name.
func (c *Cache) PutPage(ctx context.Context, page *pages.Page) error {
	if page == nil {
		return nil
	}
	return c.store.Set(ctx, pagePrefix+page.CacheKey(), page.Clone(), c.ttl)
}

// InvalidatePage drops a cached page.
func (c *Cache) InvalidatePage(ctx context.Context, orgScope, name string) error {
	return c.store.Delete(ctx, pagePrefix+pages.Key(orgScope, name))
}

// GetSection returns the cached section with the given id.
func (c *Cache) GetSection(ctx context.Context, id string) (*sections.Section, bool) {
	value, ok := c.get(ctx, sectionPrefix+id)
	if !ok {
		return nil, false
	}
	section, ok := value.(*sections.Section)
	if !ok {
		return nil, false
	}
	return section.Clone(), true
}

// PutSection stores a copy of section under its id.
func (c *Cache) PutSection(ctx context.Context, section *sections.Section) error {
	if section == nil {
		return nil
	}
	return c.store.Set(ctx, sectionPrefix+section.Key, section.Clone(), c.ttl)
}

// InvalidateSection drops a cached section.
func (c *Cache) InvalidateSection(ctx context.Context, id string) error {
	return c.store.Delete(ctx, sectionPrefix+id)
}

// Clear drops every entry.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

func (c *Cache) get(ctx context.Context, key string) (any, bool) {
	value, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			c.logger.Warn("cache.get.failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}
