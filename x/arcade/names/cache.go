package names

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheTTL is how long a resolved name is served before it is looked up again.
const CacheTTL = time.Hour

// Cache stores identity lookups. A cached miss is stored as "" and reported
// with ok set.
type Cache interface {
	Get(ctx context.Context, key string) (name string, ok bool, err error)
	Set(ctx context.Context, key, name string, ttl time.Duration) error
}

// RedisCache keeps lookups in redis under a key prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

type cachedName struct {
	Name string `json:"name"`
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var v cachedName
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, err
	}
	return v.Name, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, name string, ttl time.Duration) error {
	raw, err := json.Marshal(cachedName{Name: name})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}

// DefaultMemoryCacheSize bounds the names held by a MemoryCache.
const DefaultMemoryCacheSize = 4096

// MemoryCache is a process local Cache holding at most size names, least
// recently used first out. Entries expire after the ttl given to
// NewMemoryCache; the ttl passed to Set is ignored.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	return &MemoryCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	name, ok := c.lru.Get(key)
	return name, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key, name string, _ time.Duration) error {
	c.lru.Add(key, name)
	return nil
}

// Len returns the number of names held, expired ones included until they are
// swept.
func (c *MemoryCache) Len() int { return c.lru.Len() }
