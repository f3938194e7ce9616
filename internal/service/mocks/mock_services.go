package mocks

import (
	"context"

	"hondaapi/internal/model"
	"hondaapi/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockResource mocks any of service.Lister, service.Editor and service.Resource.
type MockResource[T model.Entity, In any] struct {
	mock.Mock
}

func (m *MockResource[T, In]) List(ctx context.Context, search string) ([]T, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockResource[T, In]) Create(ctx context.Context, in In) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockResource[T, In]) Update(ctx context.Context, id string, in In) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockResource[T, In]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReviewLister struct {
	mock.Mock
}

func (m *MockReviewLister) List(ctx context.Context, q service.ReviewQuery) ([]model.Review, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}
