package cachestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
)

const defaultShards = 16

// MemoryStorage keeps all caches in process memory.
type MemoryStorage struct {
	mu        sync.RWMutex
	caches    map[string]*MemoryCache
	order     []string
	numShards int
}

// NewMemoryStorage creates an empty in-memory storage. numShards is rounded up
// to a power of two; zero or negative selects the default.
func NewMemoryStorage(numShards int) *MemoryStorage {
	if numShards <= 0 {
		numShards = defaultShards
	}
	n := 1
	for n < numShards {
		n *= 2
	}
	return &MemoryStorage{
		caches:    make(map[string]*MemoryCache),
		numShards: n,
	}
}

// Open implements Storage.
func (s *MemoryStorage) Open(_ context.Context, name string) (Cache, error) {
	s.mu.RLock()
	c, ok := s.caches[name]
	s.mu.RUnlock()
	if ok {
		return c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.caches[name]; ok {
		return c, nil
	}
	c = newMemoryCache(name, s.numShards)
	s.caches[name] = c
	s.order = append(s.order, name)
	metrics.RecordCacheOperation("open", "created")
	return c, nil
}

// Has implements Storage.
func (s *MemoryStorage) Has(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.caches[name]
	return ok, nil
}

// Keys implements Storage.
func (s *MemoryStorage) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names, nil
}

// Delete implements Storage.
func (s *MemoryStorage) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.caches[name]; !ok {
		return false, nil
	}
	delete(s.caches, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.RecordCacheOperation("delete_cache", "success")
	return true, nil
}

// Match implements Storage.
func (s *MemoryStorage) Match(ctx context.Context, key string) (*model.Response, bool, error) {
	s.mu.RLock()
	caches := make([]*MemoryCache, 0, len(s.order))
	for _, name := range s.order {
		caches = append(caches, s.caches[name])
	}
	s.mu.RUnlock()

	for _, c := range caches {
		if resp, ok := c.lookup(key); ok {
			metrics.RecordCacheOperation("match", "hit")
			return resp, true, nil
		}
	}
	metrics.RecordCacheOperation("match", "miss")
	return nil, false, ctx.Err()
}

// MemoryCache is a sharded in-memory named cache.
type MemoryCache struct {
	name      string
	shards    []*memoryShard
	shardMask uint64
}

type memoryShard struct {
	mu    sync.RWMutex
	items map[string]*model.Response
}

func newMemoryCache(name string, numShards int) *MemoryCache {
	shards := make([]*memoryShard, numShards)
	for i := range shards {
		shards[i] = &memoryShard{items: make(map[string]*model.Response)}
	}
	return &MemoryCache{
		name:      name,
		shards:    shards,
		shardMask: uint64(numShards - 1),
	}
}

func (c *MemoryCache) shard(key string) *memoryShard {
	return c.shards[xxhash.Sum64String(key)&c.shardMask]
}

func (c *MemoryCache) lookup(key string) (*model.Response, bool) {
	sh := c.shard(key)
	sh.mu.RLock()
	resp, ok := sh.items[key]
	sh.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return resp.Clone(), true
}

// Name implements Cache.
func (c *MemoryCache) Name() string {
	return c.name
}

// Match implements Cache.
func (c *MemoryCache) Match(_ context.Context, key string) (*model.Response, bool, error) {
	resp, ok := c.lookup(key)
	metrics.RecordCacheOperation("match", recordMatch(ok))
	return resp, ok, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(_ context.Context, key string, resp *model.Response) error {
	c.store(key, resp)
	metrics.RecordCacheOperation("put", "stored")
	return nil
}

// PutAll implements Cache. Memory writes cannot fail, so all entries land.
func (c *MemoryCache) PutAll(_ context.Context, entries []Entry) error {
	for _, e := range entries {
		c.store(e.Key, e.Response)
	}
	metrics.RecordCacheOperation("put_all", "stored")
	return nil
}

func (c *MemoryCache) store(key string, resp *model.Response) {
	stored := resp.Clone()
	if stored.StoredAt.IsZero() {
		stored.StoredAt = time.Now()
	}
	sh := c.shard(key)
	sh.mu.Lock()
	sh.items[key] = stored
	sh.mu.Unlock()
}

// Keys implements Cache. Keys are returned sorted.
func (c *MemoryCache) Keys(_ context.Context) ([]string, error) {
	var keys []string
	for _, sh := range c.shards {
		sh.mu.RLock()
		for k := range sh.items {
			keys = append(keys, k)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) (bool, error) {
	sh := c.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.items[key]; !ok {
		return false, nil
	}
	delete(sh.items, key)
	metrics.RecordCacheOperation("delete", "success")
	return true, nil
}
