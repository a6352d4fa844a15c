package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"gitranks/backend-go/internal/config"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memItem
}

type memItem struct {
	val []byte
	exp time.Time
}

func NewCache(cfg config.Config) Cache {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return NewMemoryCache()
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return NewMemoryCache()
	}
	return &RedisCache{client: client}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem)}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !it.exp.IsZero() && time.Now().After(it.exp) {
		delete(m.items, key)
		return nil, false
	}
	return it.val, true
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.items[key] = memItem{val: val, exp: exp}
	return nil
}

func MarshalCache(v any) ([]byte, error) {
	return json.Marshal(v)
}

func UnmarshalCache(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// GetOrSet returns the cached value under key when unexpired, otherwise runs
// producer, stores the result for ttl and returns it. Concurrent callers on
// the same key may each run the producer; first write wins, the producers are
// idempotent fetches so the race is accepted.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, producer func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if c != nil {
		if b, ok := c.Get(ctx, key); ok {
			if err := UnmarshalCache(b, &out); err == nil {
				return out, nil
			}
		}
	}
	out, err := producer(ctx)
	if err != nil {
		return out, err
	}
	if c != nil {
		if b, err := MarshalCache(out); err == nil {
			_ = c.Set(ctx, key, b, ttl)
		}
	}
	return out, nil
}
