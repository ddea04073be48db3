package authgate

import "context"

// SessionState is the session axis of a user record: a user either has no
// session or exactly one active session.
type SessionState uint8

const (
	// NoSession means the record carries no refresh-token hash.
	NoSession SessionState = iota
	// ActiveSession means a refresh-token hash is stored and the matching
	// refresh token is the only one that can rotate the session.
	ActiveSession
)

// UserRecord is the full account record held by a [CredentialStore]. It
// carries credential hashes only; plaintext passwords and refresh tokens are
// never persisted.
type UserRecord struct {
	UserID       string
	Email        string
	PasswordHash string

	// RefreshTokenHash is the argon2id hash of the currently valid refresh
	// token, or empty when the user has no active session.
	RefreshTokenHash string
}

// SessionState reports whether the record has an active session.
func (u UserRecord) SessionState() SessionState {
	if u.RefreshTokenHash == "" {
		return NoSession
	}
	return ActiveSession
}

// CreateUserInput is the input for [CredentialStore.CreateUser].
type CreateUserInput struct {
	Email        string
	PasswordHash string
}

// TokenPair is returned by SignUp, SignIn, and Refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is returned by [Engine.ValidateAccess]. It identifies the
// authenticated user.
type AuthResult struct {
	UserID string
	Email  string
}

// CredentialStore is the persistence interface the Engine is built on.
// Implementations must make CreateUser atomic with respect to email
// uniqueness and SwapRefreshHash a conditional compare-and-swap, so that
// concurrent sign-ups and rotations resolve to exactly one winner without
// in-process locking.
//
// Store errors: CreateUser returns [ErrDuplicateEmail] on an email
// collision; lookups and updates return [ErrUserNotFound] for missing
// records; connectivity failures are wrapped in [ErrStoreUnavailable].
type CredentialStore interface {
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)

	// ReplaceRefreshHash unconditionally overwrites the stored refresh
	// hash. Used by sign-in and sign-up (last login wins).
	ReplaceRefreshHash(ctx context.Context, userID, nextHash string) error

	// SwapRefreshHash replaces the stored refresh hash only when it still
	// equals expectedHash. It reports false without error when the
	// condition fails.
	SwapRefreshHash(ctx context.Context, userID, expectedHash, nextHash string) (bool, error)

	// ClearRefreshHash removes the stored refresh hash. Clearing an
	// already-empty hash is a no-op, not an error.
	ClearRefreshHash(ctx context.Context, userID string) error
}
