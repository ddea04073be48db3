package authgate

import "errors"

var (
	// ErrInvalidCredentials is returned by SignIn for unknown emails and
	// wrong passwords alike, so the two cases are indistinguishable to
	// callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned by SignUp when the email is already
	// registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSignUpInvalid is returned by SignUp for malformed input.
	ErrSignUpInvalid = errors.New("invalid signup request")
	// ErrTokenInvalid is returned when a presented token fails signature,
	// expiry, or claim checks.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrRefreshDenied is returned when a refresh is attempted without an
	// active session, for a different user than the token subject, or by
	// the loser of a concurrent rotation.
	ErrRefreshDenied = errors.New("refresh denied")
	// ErrRefreshReuse is returned when a refresh token that does not match
	// the stored session hash is presented. It indicates replay of an
	// already-rotated token.
	ErrRefreshReuse = errors.New("refresh token reuse detected")
	// ErrStoreUnavailable wraps connectivity and driver failures of the
	// credential store.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrEngineNotReady is returned when an Engine is used before Build
	// completed.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrUserNotFound is the store-level sentinel for a missing user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is the store-level sentinel for an email uniqueness
	// violation on create.
	ErrDuplicateEmail = errors.New("duplicate email")
)
