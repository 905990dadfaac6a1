// Package cachestore holds the named, versioned caches that back the offline
// proxy. A Storage is the set of all caches; a Cache maps request identities
// to full response payloads. Nothing in this package expires or evicts
// individual entries: whole caches are deleted when superseded.
package cachestore

import (
	"context"
	"errors"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
)

// ErrCacheNotFound is returned when an operation targets a cache that does not exist.
var ErrCacheNotFound = errors.New("cache not found")

// Entry is a single request-key/response pair.
type Entry struct {
	Key      string
	Response *model.Response
}

// Cache is one named cache.
type Cache interface {
	Name() string
	// Match returns a copy of the stored response for key.
	Match(ctx context.Context, key string) (*model.Response, bool, error)
	// Put stores resp under key, replacing any previous value.
	Put(ctx context.Context, key string, resp *model.Response) error
	// PutAll stores every entry or none of them.
	PutAll(ctx context.Context, entries []Entry) error
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// Storage is the collection of named caches.
type Storage interface {
	// Open returns the named cache, creating it if absent.
	Open(ctx context.Context, name string) (Cache, error)
	Has(ctx context.Context, name string) (bool, error)
	// Keys lists cache names in creation order.
	Keys(ctx context.Context) ([]string, error)
	// Delete removes a whole cache. It reports whether the cache existed.
	Delete(ctx context.Context, name string) (bool, error)
	// Match searches every cache, in creation order, for key.
	Match(ctx context.Context, key string) (*model.Response, bool, error)
}

func recordMatch(found bool) string {
	if found {
		return "hit"
	}
	return "miss"
}
