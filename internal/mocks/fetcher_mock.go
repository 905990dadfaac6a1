// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/vitaltrack-proxy/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, req *model.Request) (*model.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Response), args.Error(1)
}
