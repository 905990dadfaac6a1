// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"

	"github.com/guttosm/vitaltrack-proxy/internal/circuitbreaker"
)

// CacheRepositoryWithCircuitBreaker wraps a cache repository with circuit breaker protection.
// An open circuit surfaces as circuitbreaker.ErrCircuitOpen; the proxy treats
// that as a storage failure, never as a cache miss.
type CacheRepositoryWithCircuitBreaker struct {
	repo           CacheRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewCacheRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewCacheRepositoryWithCircuitBreaker(repo CacheRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *CacheRepositoryWithCircuitBreaker {
	return &CacheRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// guard runs fn through the breaker and returns its typed result.
func guard[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = fn()
		return cbErr
	})
	return result, err
}

// EnsureCache creates a cache with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) EnsureCache(ctx context.Context, name string) (bool, error) {
	return guard(ctx, r.circuitBreaker, func() (bool, error) { return r.repo.EnsureCache(ctx, name) })
}

// CacheExists checks for a cache with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) CacheExists(ctx context.Context, name string) (bool, error) {
	return guard(ctx, r.circuitBreaker, func() (bool, error) { return r.repo.CacheExists(ctx, name) })
}

// ListCaches lists caches with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) ListCaches(ctx context.Context) ([]CacheDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]CacheDocument, error) { return r.repo.ListCaches(ctx) })
}

// DeleteCache deletes a cache with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) DeleteCache(ctx context.Context, name string) (bool, error) {
	return guard(ctx, r.circuitBreaker, func() (bool, error) { return r.repo.DeleteCache(ctx, name) })
}

// FindEntry finds an entry with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) FindEntry(ctx context.Context, cache, key string) (*CacheEntryDocument, error) {
	return guard(ctx, r.circuitBreaker, func() (*CacheEntryDocument, error) { return r.repo.FindEntry(ctx, cache, key) })
}

// FindEntries finds entries across caches with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) FindEntries(ctx context.Context, key string) ([]CacheEntryDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]CacheEntryDocument, error) { return r.repo.FindEntries(ctx, key) })
}

// UpsertEntry stores an entry with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) UpsertEntry(ctx context.Context, doc *CacheEntryDocument) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.UpsertEntry(ctx, doc) })
}

// UpsertEntries stores entries with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) UpsertEntries(ctx context.Context, docs []*CacheEntryDocument) error {
	return r.circuitBreaker.Execute(ctx, func() error { return r.repo.UpsertEntries(ctx, docs) })
}

// ListEntryKeys lists entry keys with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) ListEntryKeys(ctx context.Context, cache string) ([]string, error) {
	return guard(ctx, r.circuitBreaker, func() ([]string, error) { return r.repo.ListEntryKeys(ctx, cache) })
}

// DeleteEntry deletes an entry with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) DeleteEntry(ctx context.Context, cache, key string) (bool, error) {
	return guard(ctx, r.circuitBreaker, func() (bool, error) { return r.repo.DeleteEntry(ctx, cache, key) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *CacheRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
