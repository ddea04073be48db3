// Package postgres provides a CredentialStore on database/sql with the
// lib/pq driver. Email uniqueness relies on the table's unique constraint;
// the refresh-hash swap is a conditional UPDATE, so rotation races resolve
// in the database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/authgate/authgate"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Schema creates the users table. An empty refresh_token_hash means the
// user has no active session.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id                 TEXT PRIMARY KEY,
	email              TEXT NOT NULL UNIQUE,
	password_hash      TEXT NOT NULL,
	refresh_token_hash TEXT NOT NULL DEFAULT ''
);
`

const uniqueViolation = "23505"

// Store is a CredentialStore backed by a Postgres database.
type Store struct {
	db *sql.DB
}

// New wraps an opened database handle. The caller owns the pool and the
// schema migration.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	rec := authgate.UserRecord{
		UserID:       uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		rec.UserID, rec.Email, rec.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return authgate.UserRecord{}, authgate.ErrDuplicateEmail
		}
		return authgate.UserRecord{}, wrapUnavailable(err)
	}

	return rec, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (authgate.UserRecord, error) {
	return s.getUser(ctx,
		`SELECT id, email, password_hash, refresh_token_hash FROM users WHERE email = $1`,
		email,
	)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (authgate.UserRecord, error) {
	return s.getUser(ctx,
		`SELECT id, email, password_hash, refresh_token_hash FROM users WHERE id = $1`,
		userID,
	)
}

func (s *Store) getUser(ctx context.Context, query, arg string) (authgate.UserRecord, error) {
	var rec authgate.UserRecord
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&rec.UserID, &rec.Email, &rec.PasswordHash, &rec.RefreshTokenHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return authgate.UserRecord{}, authgate.ErrUserNotFound
	}
	if err != nil {
		return authgate.UserRecord{}, wrapUnavailable(err)
	}
	return rec, nil
}

func (s *Store) ReplaceRefreshHash(ctx context.Context, userID, nextHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = $2 WHERE id = $1`,
		userID, nextHash,
	)
	if err != nil {
		return wrapUnavailable(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return wrapUnavailable(err)
	}
	if rows == 0 {
		return authgate.ErrUserNotFound
	}
	return nil
}

func (s *Store) SwapRefreshHash(ctx context.Context, userID, expectedHash, nextHash string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = $3 WHERE id = $1 AND refresh_token_hash = $2`,
		userID, expectedHash, nextHash,
	)
	if err != nil {
		return false, wrapUnavailable(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, wrapUnavailable(err)
	}
	if rows == 1 {
		return true, nil
	}

	// Distinguish a lost race from a deleted user.
	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = $1`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, authgate.ErrUserNotFound
	}
	if err != nil {
		return false, wrapUnavailable(err)
	}
	return false, nil
}

func (s *Store) ClearRefreshHash(ctx context.Context, userID string) error {
	return s.ReplaceRefreshHash(ctx, userID, "")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

func wrapUnavailable(err error) error {
	return fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
}
