// Package memory provides an in-process CredentialStore backed by maps.
// It is the default store for tests and examples; conditional writes are
// serialized by a single mutex, which gives the same exactly-one-winner
// semantics as the networked backends.
package memory

import (
	"context"
	"sync"

	"github.com/authgate/authgate"
	"github.com/google/uuid"
)

// Store is a mutex-guarded in-memory credential store.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]authgate.UserRecord
	byEmail map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:    make(map[string]authgate.UserRecord),
		byEmail: make(map[string]string),
	}
}

func (s *Store) CreateUser(_ context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[input.Email]; exists {
		return authgate.UserRecord{}, authgate.ErrDuplicateEmail
	}

	rec := authgate.UserRecord{
		UserID:       uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}
	s.byID[rec.UserID] = rec
	s.byEmail[rec.Email] = rec.UserID

	return rec, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (authgate.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *Store) GetUserByID(_ context.Context, userID string) (authgate.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[userID]
	if !ok {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}
	return rec, nil
}

func (s *Store) ReplaceRefreshHash(_ context.Context, userID, nextHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[userID]
	if !ok {
		return authgate.ErrUserNotFound
	}
	rec.RefreshTokenHash = nextHash
	s.byID[userID] = rec
	return nil
}

func (s *Store) SwapRefreshHash(_ context.Context, userID, expectedHash, nextHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[userID]
	if !ok {
		return false, authgate.ErrUserNotFound
	}
	if rec.RefreshTokenHash != expectedHash {
		return false, nil
	}
	rec.RefreshTokenHash = nextHash
	s.byID[userID] = rec
	return true, nil
}

func (s *Store) ClearRefreshHash(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[userID]
	if !ok {
		return authgate.ErrUserNotFound
	}
	rec.RefreshTokenHash = ""
	s.byID[userID] = rec
	return nil
}
