// Package redisstore provides a Redis-backed CredentialStore. User records
// live in hashes keyed by id; a string key per email enforces uniqueness.
// Create and the conditional refresh-hash writes run as Lua scripts so each
// operation is a single atomic round-trip.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/authgate/authgate"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const createUserScript = `
if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[2], "email", ARGV[2], "password_hash", ARGV[3], "refresh_hash", "")
return 1
`

var createUserLua = redis.NewScript(createUserScript)

const replaceRefreshScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "refresh_hash", ARGV[1])
return 1
`

var replaceRefreshLua = redis.NewScript(replaceRefreshScript)

const swapRefreshScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
local current = redis.call("HGET", KEYS[1], "refresh_hash")
if current == false then
  current = ""
end
if current ~= ARGV[1] then
  return 0
end
redis.call("HSET", KEYS[1], "refresh_hash", ARGV[2])
return 1
`

var swapRefreshLua = redis.NewScript(swapRefreshScript)

const swapStatusNotFound int64 = -1
const swapStatusMismatch int64 = 0
const swapStatusSwapped int64 = 1

// Store is a CredentialStore on top of a go-redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps the client. An empty prefix defaults to "ag".
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "ag"
	}
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":u:" + userID
}

func (s *Store) emailKey(email string) string {
	return s.prefix + ":e:" + email
}

func (s *Store) CreateUser(ctx context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	userID := uuid.NewString()

	created, err := createUserLua.Run(ctx, s.client,
		[]string{s.emailKey(input.Email), s.userKey(userID)},
		userID, input.Email, input.PasswordHash,
	).Int64()
	if err != nil {
		return authgate.UserRecord{}, wrapUnavailable(err)
	}
	if created == 0 {
		return authgate.UserRecord{}, authgate.ErrDuplicateEmail
	}

	return authgate.UserRecord{
		UserID:       userID,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (authgate.UserRecord, error) {
	userID, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}
	if err != nil {
		return authgate.UserRecord{}, wrapUnavailable(err)
	}

	return s.GetUserByID(ctx, userID)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (authgate.UserRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.userKey(userID)).Result()
	if err != nil {
		return authgate.UserRecord{}, wrapUnavailable(err)
	}
	if len(fields) == 0 {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}

	return authgate.UserRecord{
		UserID:           userID,
		Email:            fields["email"],
		PasswordHash:     fields["password_hash"],
		RefreshTokenHash: fields["refresh_hash"],
	}, nil
}

func (s *Store) ReplaceRefreshHash(ctx context.Context, userID, nextHash string) error {
	replaced, err := replaceRefreshLua.Run(ctx, s.client,
		[]string{s.userKey(userID)},
		nextHash,
	).Int64()
	if err != nil {
		return wrapUnavailable(err)
	}
	if replaced == 0 {
		return authgate.ErrUserNotFound
	}
	return nil
}

func (s *Store) SwapRefreshHash(ctx context.Context, userID, expectedHash, nextHash string) (bool, error) {
	status, err := swapRefreshLua.Run(ctx, s.client,
		[]string{s.userKey(userID)},
		expectedHash, nextHash,
	).Int64()
	if err != nil {
		return false, wrapUnavailable(err)
	}

	switch status {
	case swapStatusSwapped:
		return true, nil
	case swapStatusMismatch:
		return false, nil
	case swapStatusNotFound:
		return false, authgate.ErrUserNotFound
	default:
		return false, fmt.Errorf("%w: unexpected swap status %d", authgate.ErrStoreUnavailable, status)
	}
}

func (s *Store) ClearRefreshHash(ctx context.Context, userID string) error {
	return s.ReplaceRefreshHash(ctx, userID, "")
}

func wrapUnavailable(err error) error {
	return fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
}
