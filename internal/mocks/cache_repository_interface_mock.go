// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/vitaltrack-proxy/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCacheRepositoryInterface struct {
	mock.Mock
}

func (m *MockCacheRepositoryInterface) EnsureCache(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepositoryInterface) CacheExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepositoryInterface) ListCaches(ctx context.Context) ([]repository.CacheDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CacheDocument), args.Error(1)
}

func (m *MockCacheRepositoryInterface) DeleteCache(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepositoryInterface) FindEntry(ctx context.Context, cache, key string) (*repository.CacheEntryDocument, error) {
	args := m.Called(ctx, cache, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CacheEntryDocument), args.Error(1)
}

func (m *MockCacheRepositoryInterface) FindEntries(ctx context.Context, key string) ([]repository.CacheEntryDocument, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CacheEntryDocument), args.Error(1)
}

func (m *MockCacheRepositoryInterface) UpsertEntry(ctx context.Context, doc *repository.CacheEntryDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockCacheRepositoryInterface) UpsertEntries(ctx context.Context, docs []*repository.CacheEntryDocument) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockCacheRepositoryInterface) ListEntryKeys(ctx context.Context, cache string) ([]string, error) {
	args := m.Called(ctx, cache)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCacheRepositoryInterface) DeleteEntry(ctx context.Context, cache, key string) (bool, error) {
	args := m.Called(ctx, cache, key)
	return args.Bool(0), args.Error(1)
}
