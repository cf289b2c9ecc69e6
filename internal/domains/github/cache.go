package github

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis"
)

// Entry is a cached snapshot and when it was stored.
type Entry struct {
	Snapshot Snapshot  `json:"snapshot"`
	StoredAt time.Time `json:"storedAt"`
}

// Cache keeps the last good snapshot. Entries are never expired by the cache
// itself so a stale copy stays available when GitHub is down.
type Cache interface {
	Load(ctx context.Context) (*Entry, error)
	Store(ctx context.Context, e Entry) error
}

type MemoryCache struct {
	mu    sync.RWMutex
	entry *Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (m *MemoryCache) Load(context.Context) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entry == nil {
		return nil, nil
	}
	e := *m.entry
	return &e, nil
}

func (m *MemoryCache) Store(_ context.Context, e Entry) error {
	m.mu.Lock()
	m.entry = &e
	m.mu.Unlock()
	return nil
}

// RedisCache shares the snapshot across instances. The key outlives the
// freshness window by retention so stale reads still find it.
type RedisCache struct {
	client    *redis.Client
	key       string
	retention time.Duration
}

func NewRedisCache(client *redis.Client, username string, retention time.Duration) *RedisCache {
	return &RedisCache{
		client:    client,
		key:       "portfolio:github:" + username,
		retention: retention,
	}
}

func (r *RedisCache) Load(context.Context) (*Entry, error) {
	raw, err := r.client.Get(r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read github cache: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode github cache: %w", err)
	}
	return &e, nil
}

func (r *RedisCache) Store(_ context.Context, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := r.client.Set(r.key, raw, r.retention).Err(); err != nil {
		return fmt.Errorf("failed to write github cache: %w", err)
	}
	return nil
}

// TieredCache reads through memory first and falls back to the shared cache.
type TieredCache struct {
	local  *MemoryCache
	shared Cache
}

func NewTieredCache(shared Cache) *TieredCache {
	return &TieredCache{local: NewMemoryCache(), shared: shared}
}

func (t *TieredCache) Load(ctx context.Context) (*Entry, error) {
	local, _ := t.local.Load(ctx)
	shared, err := t.shared.Load(ctx)
	if err != nil || shared == nil {
		return local, nil
	}
	if local == nil || shared.StoredAt.After(local.StoredAt) {
		_ = t.local.Store(ctx, *shared)
		return shared, nil
	}
	return local, nil
}

func (t *TieredCache) Store(ctx context.Context, e Entry) error {
	_ = t.local.Store(ctx, e)
	return t.shared.Store(ctx, e)
}
