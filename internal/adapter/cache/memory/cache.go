package memory

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is the in-process CacheRepository backed by go-cache.
type Cache struct {
	cache *cache.Cache
}

func NewCache(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		cache: cache.New(defaultTTL, cleanupInterval),
	}
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, nil
	}

	return value.([]byte), nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}

	return nil
}

func (c *Cache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *Cache) Close() error {
	c.cache.Flush()
	return nil
}
