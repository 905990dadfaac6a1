package cachestore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/guttosm/vitaltrack-proxy/internal/metrics"
	"github.com/guttosm/vitaltrack-proxy/internal/repository"
)

// MongoStorage keeps caches in MongoDB so they survive process restarts.
type MongoStorage struct {
	repo repository.CacheRepositoryInterface
}

// NewMongoStorage creates a storage backed by the given repository.
func NewMongoStorage(repo repository.CacheRepositoryInterface) *MongoStorage {
	return &MongoStorage{repo: repo}
}

// Open implements Storage.
func (s *MongoStorage) Open(ctx context.Context, name string) (Cache, error) {
	created, err := s.repo.EnsureCache(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open cache %q: %w", name, err)
	}
	if created {
		metrics.RecordCacheOperation("open", "created")
	}
	return &MongoCache{name: name, repo: s.repo}, nil
}

// Has implements Storage.
func (s *MongoStorage) Has(ctx context.Context, name string) (bool, error) {
	return s.repo.CacheExists(ctx, name)
}

// Keys implements Storage.
func (s *MongoStorage) Keys(ctx context.Context) ([]string, error) {
	docs, err := s.repo.ListCaches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list caches: %w", err)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

// Delete implements Storage.
func (s *MongoStorage) Delete(ctx context.Context, name string) (bool, error) {
	deleted, err := s.repo.DeleteCache(ctx, name)
	if err != nil {
		return false, fmt.Errorf("delete cache %q: %w", name, err)
	}
	if deleted {
		metrics.RecordCacheOperation("delete_cache", "success")
	}
	return deleted, nil
}

// Match implements Storage. Candidate entries are ranked by the creation
// order of their caches.
func (s *MongoStorage) Match(ctx context.Context, key string) (*model.Response, bool, error) {
	docs, err := s.repo.FindEntries(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("match %q: %w", key, err)
	}
	if len(docs) == 0 {
		metrics.RecordCacheOperation("match", "miss")
		return nil, false, nil
	}

	best := &docs[0]
	if len(docs) > 1 {
		names, err := s.Keys(ctx)
		if err != nil {
			return nil, false, err
		}
		rank := make(map[string]int, len(names))
		for i, n := range names {
			rank[n] = i
		}
		best = nil
		for i := range docs {
			r, ok := rank[docs[i].Cache]
			if !ok {
				continue
			}
			if best == nil || r < rank[best.Cache] {
				best = &docs[i]
			}
		}
		if best == nil {
			metrics.RecordCacheOperation("match", "miss")
			return nil, false, nil
		}
	}

	metrics.RecordCacheOperation("match", "hit")
	return fromDocument(best), true, nil
}

// MongoCache is one named cache stored in MongoDB.
type MongoCache struct {
	name string
	repo repository.CacheRepositoryInterface
}

// Name implements Cache.
func (c *MongoCache) Name() string {
	return c.name
}

// Match implements Cache.
func (c *MongoCache) Match(ctx context.Context, key string) (*model.Response, bool, error) {
	doc, err := c.repo.FindEntry(ctx, c.name, key)
	if err != nil {
		return nil, false, fmt.Errorf("match %q in %q: %w", key, c.name, err)
	}
	metrics.RecordCacheOperation("match", recordMatch(doc != nil))
	if doc == nil {
		return nil, false, nil
	}
	return fromDocument(doc), true, nil
}

// Put implements Cache.
func (c *MongoCache) Put(ctx context.Context, key string, resp *model.Response) error {
	if err := c.repo.UpsertEntry(ctx, toDocument(c.name, key, resp)); err != nil {
		metrics.RecordCacheOperation("put", "error")
		return fmt.Errorf("put %q in %q: %w", key, c.name, err)
	}
	metrics.RecordCacheOperation("put", "stored")
	return nil
}

// PutAll implements Cache.
func (c *MongoCache) PutAll(ctx context.Context, entries []Entry) error {
	docs := make([]*repository.CacheEntryDocument, len(entries))
	for i, e := range entries {
		docs[i] = toDocument(c.name, e.Key, e.Response)
	}
	if err := c.repo.UpsertEntries(ctx, docs); err != nil {
		metrics.RecordCacheOperation("put_all", "error")
		return fmt.Errorf("put %d entries in %q: %w", len(entries), c.name, err)
	}
	metrics.RecordCacheOperation("put_all", "stored")
	return nil
}

// Keys implements Cache.
func (c *MongoCache) Keys(ctx context.Context) ([]string, error) {
	return c.repo.ListEntryKeys(ctx, c.name)
}

// Delete implements Cache.
func (c *MongoCache) Delete(ctx context.Context, key string) (bool, error) {
	return c.repo.DeleteEntry(ctx, c.name, key)
}

func toDocument(cache, key string, resp *model.Response) *repository.CacheEntryDocument {
	return &repository.CacheEntryDocument{
		Cache:    cache,
		Key:      key,
		URL:      resp.URL,
		Status:   resp.Status,
		Header:   map[string][]string(resp.Header.Clone()),
		Body:     resp.Body,
		Type:     string(resp.Type),
		StoredAt: resp.StoredAt,
	}
}

func fromDocument(doc *repository.CacheEntryDocument) *model.Response {
	return &model.Response{
		URL:      doc.URL,
		Status:   doc.Status,
		Header:   http.Header(doc.Header),
		Body:     doc.Body,
		Type:     model.ResponseType(doc.Type),
		StoredAt: doc.StoredAt,
	}
}
