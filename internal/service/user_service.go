package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"invosync/internal/domain"
	"invosync/internal/port"
)

// UserService resolves emails to stable user document ids and serves
// profile read-backs.
type UserService interface {
	// Resolve maps an email to a user id, creating the user document on
	// first sight.
	Resolve(ctx context.Context, email string) (string, error)
	// Lookup maps an email to a user id without creating anything,
	// returning domain.ErrNotFound for unseen emails.
	Lookup(ctx context.Context, email string) (string, error)
	// Profile fetches a user document by id.
	Profile(ctx context.Context, userID string) (*domain.Profile, error)
}

type userService struct {
	store port.DocumentStore
}

// NewUserService creates a new UserService over the document store.
func NewUserService(store port.DocumentStore) UserService {
	return &userService{store: store}
}

// Resolve looks up a user by email equality, limited to one match, and
// creates the document when absent. Lookup-then-create is not transactional:
// two concurrent first-sight requests for the same email can race and create
// two user documents. Known gap, accepted for the expected concurrency.
func (s *userService) Resolve(ctx context.Context, email string) (string, error) {
	id, err := s.Lookup(ctx, email)
	if err == nil {
		return id, nil
	}
	if err != domain.ErrNotFound {
		return "", err
	}

	id = uuid.New().String()
	user := domain.User{Email: email, CreatedAt: time.Now().UTC()}
	if err := s.store.Set(ctx, userPath(id), user); err != nil {
		return "", fmt.Errorf("userService.Resolve create: %w", err)
	}
	log.Printf("userService: created user %s for %s", id, email)
	return id, nil
}

func (s *userService) Lookup(ctx context.Context, email string) (string, error) {
	snaps, err := s.store.QueryByField(ctx, userCollection, "email", email, 1)
	if err != nil {
		return "", fmt.Errorf("userService.Lookup: %w", err)
	}
	if len(snaps) == 0 {
		return "", domain.ErrNotFound
	}
	return snaps[0].ID, nil
}

func (s *userService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	snap, err := s.store.Get(ctx, userPath(userID))
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userService.Profile: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(snap.Data, &user); err != nil {
		return nil, fmt.Errorf("userService.Profile decode: %w", err)
	}

	return &domain.Profile{
		Email:        user.Email,
		CreatedAt:    user.CreatedAt.UTC().Format(time.RFC3339),
		LastAccessed: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
