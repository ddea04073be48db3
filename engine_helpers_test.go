package authgate

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// mockStore is an in-memory CredentialStore for engine tests. forcedErr, when
// set, is returned by every operation to simulate an unreachable backend.
type mockStore struct {
	mu        sync.Mutex
	byID      map[string]UserRecord
	byEmail   map[string]string
	nextID    int
	forcedErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
	}
}

func (s *mockStore) CreateUser(_ context.Context, input CreateUserInput) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedErr != nil {
		return UserRecord{}, s.forcedErr
	}
	if _, exists := s.byEmail[input.Email]; exists {
		return UserRecord{}, ErrDuplicateEmail
	}

	s.nextID++
	rec := UserRecord{
		UserID:       fmt.Sprintf("user-%d", s.nextID),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}
	s.byID[rec.UserID] = rec
	s.byEmail[rec.Email] = rec.UserID
	return rec, nil
}

func (s *mockStore) GetUserByEmail(_ context.Context, email string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedErr != nil {
		return UserRecord{}, s.forcedErr
	}
	id, ok := s.byEmail[email]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *mockStore) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedErr != nil {
		return UserRecord{}, s.forcedErr
	}
	rec, ok := s.byID[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return rec, nil
}

func (s *mockStore) ReplaceRefreshHash(_ context.Context, userID, nextHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedErr != nil {
		return s.forcedErr
	}
	rec, ok := s.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	rec.RefreshTokenHash = nextHash
	s.byID[userID] = rec
	return nil
}

func (s *mockStore) SwapRefreshHash(_ context.Context, userID, expectedHash, nextHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedErr != nil {
		return false, s.forcedErr
	}
	rec, ok := s.byID[userID]
	if !ok {
		return false, ErrUserNotFound
	}
	if rec.RefreshTokenHash != expectedHash {
		return false, nil
	}
	rec.RefreshTokenHash = nextHash
	s.byID[userID] = rec
	return true, nil
}

func (s *mockStore) ClearRefreshHash(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedErr != nil {
		return s.forcedErr
	}
	rec, ok := s.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	rec.RefreshTokenHash = ""
	s.byID[userID] = rec
	return nil
}

func (s *mockStore) record(t *testing.T, userID string) UserRecord {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[userID]
	if !ok {
		t.Fatalf("no record for %s", userID)
	}
	return rec
}

func (s *mockStore) deleteUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.byID[userID]; ok {
		delete(s.byEmail, rec.Email)
		delete(s.byID, userID)
	}
}

func (s *mockStore) setForcedErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedErr = err
}

func wrappedUnavailable() error {
	return fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.AccessSecret = "test-access-secret"
	cfg.Token.RefreshSecret = "test-refresh-secret"
	cfg.Token.Leeway = 0
	// Cheap hashing so tests stay fast.
	cfg.Password = PasswordConfig{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *mockStore) {
	t.Helper()

	store := newMockStore()
	engine, err := New().
		WithConfig(cfg).
		WithStore(store).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, store
}
