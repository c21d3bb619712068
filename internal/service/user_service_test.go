package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invosync/internal/domain"
	"invosync/internal/port"
	"invosync/internal/service"
	"invosync/mocks"
)

func TestUserService_Resolve_ExistingUser(t *testing.T) {
	store := new(mocks.MockDocumentStore)
	svc := service.NewUserService(store)

	store.On("QueryByField", mock.Anything, "users", "email", "a@b.com", 1).
		Return([]port.Snapshot{{Path: "users/uid-1", ID: "uid-1"}}, nil)

	id, err := svc.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Resolve_CreatesOnFirstSight(t *testing.T) {
	store := new(mocks.MockDocumentStore)
	svc := service.NewUserService(store)

	store.On("QueryByField", mock.Anything, "users", "email", "new@b.com", 1).
		Return([]port.Snapshot{}, nil)
	store.On("Set", mock.Anything, mock.MatchedBy(func(path string) bool {
		return len(path) > len("users/") && path[:6] == "users/"
	}), mock.AnythingOfType("domain.User")).Return(nil)

	id, err := svc.Resolve(context.Background(), "new@b.com")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
	store.AssertExpectations(t)
}

func TestUserService_Resolve_CreateFails(t *testing.T) {
	store := new(mocks.MockDocumentStore)
	svc := service.NewUserService(store)

	store.On("QueryByField", mock.Anything, "users", "email", "new@b.com", 1).
		Return([]port.Snapshot{}, nil)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("db down"))

	_, err := svc.Resolve(context.Background(), "new@b.com")
	assert.Error(t, err)
}

func TestUserService_Lookup_NotFound(t *testing.T) {
	store := new(mocks.MockDocumentStore)
	svc := service.NewUserService(store)

	store.On("QueryByField", mock.Anything, "users", "email", "ghost@b.com", 1).
		Return([]port.Snapshot{}, nil)

	_, err := svc.Lookup(context.Background(), "ghost@b.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Profile(t *testing.T) {
	store := new(mocks.MockDocumentStore)
	svc := service.NewUserService(store)

	created := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	data, _ := json.Marshal(domain.User{Email: "a@b.com", CreatedAt: created})
	store.On("Get", mock.Anything, "users/uid-1").
		Return(&port.Snapshot{Path: "users/uid-1", ID: "uid-1", Data: data}, nil)

	profile, err := svc.Profile(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", profile.Email)
	assert.Equal(t, "2025-01-15T09:00:00Z", profile.CreatedAt)
	assert.NotEmpty(t, profile.LastAccessed)
}

func TestUserService_Profile_NotFound(t *testing.T) {
	store := new(mocks.MockDocumentStore)
	svc := service.NewUserService(store)

	store.On("Get", mock.Anything, "users/missing").
		Return(nil, domain.ErrNotFound)

	_, err := svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
