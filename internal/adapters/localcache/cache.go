// Package localcache is an in-process domain.Cache for single-instance
// deployments and development without redis.
package localcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/karlseguin/ccache/v3"

	"lightbnb/internal/adapters/observability"
)

// Values are stored as JSON so callers never share memory with the cache.
type Cache struct{ c *ccache.Cache[[]byte] }

func New(maxItems int64) *Cache {
	if maxItems <= 0 {
		maxItems = 5000
	}
	return &Cache{c: ccache.New(ccache.Configure[[]byte]().MaxSize(maxItems))}
}

func (l *Cache) Stop() { l.c.Stop() }

func (l *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	it := l.c.Get(key)
	if it == nil || it.Expired() {
		observability.ObserveCache("local", "miss")
		return false, nil
	}
	observability.ObserveCache("local", "hit")
	return true, json.Unmarshal(it.Value(), dst)
}

func (l *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("local", "set")
	l.c.Set(key, b, time.Duration(ttlSec)*time.Second)
	return nil
}

func (l *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("local", "del")
	l.c.Delete(key)
	return nil
}
