package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invosync/internal/port"
)

// MockDocumentStore is a mock implementation of port.DocumentStore.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentStore) Get(ctx context.Context, path string) (*port.Snapshot, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Snapshot), args.Error(1)
}

func (m *MockDocumentStore) Set(ctx context.Context, path string, data any) error {
	args := m.Called(ctx, path, data)
	return args.Error(0)
}

func (m *MockDocumentStore) Merge(ctx context.Context, path string, fields map[string]any) error {
	args := m.Called(ctx, path, fields)
	return args.Error(0)
}

func (m *MockDocumentStore) List(ctx context.Context, collection string) ([]port.Snapshot, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.Snapshot), args.Error(1)
}

func (m *MockDocumentStore) QueryByField(ctx context.Context, collection, field, value string, limit int) ([]port.Snapshot, error) {
	args := m.Called(ctx, collection, field, value, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.Snapshot), args.Error(1)
}
