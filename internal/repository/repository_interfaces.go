// Package repository provides interfaces for repository operations.
package repository

import "context"

// CacheRepositoryInterface defines the interface for cache repository operations.
type CacheRepositoryInterface interface {
	EnsureCache(ctx context.Context, name string) (bool, error)
	CacheExists(ctx context.Context, name string) (bool, error)
	ListCaches(ctx context.Context) ([]CacheDocument, error)
	DeleteCache(ctx context.Context, name string) (bool, error)
	FindEntry(ctx context.Context, cache, key string) (*CacheEntryDocument, error)
	FindEntries(ctx context.Context, key string) ([]CacheEntryDocument, error)
	UpsertEntry(ctx context.Context, doc *CacheEntryDocument) error
	UpsertEntries(ctx context.Context, docs []*CacheEntryDocument) error
	ListEntryKeys(ctx context.Context, cache string) ([]string, error)
	DeleteEntry(ctx context.Context, cache, key string) (bool, error)
}
