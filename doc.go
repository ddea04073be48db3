// Package authgate provides an email/password authentication engine with JWT
// access tokens and rotating one-time-use refresh tokens.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types ([UserRecord], [TokenPair], [AuthResult]).
// Audit dispatch and metrics accounting live under internal/ and are
// re-exported here as type aliases. Credential persistence is pluggable
// through [CredentialStore]; the store/ subpackages provide in-memory,
// Redis, and Postgres implementations.
//
// # Session model
//
// A user holds at most one active session, represented by the argon2id hash
// of the currently valid refresh token in the user record. Sign-in and
// sign-up overwrite that hash (last login wins), refresh rotates it with a
// conditional compare-and-swap write, and logout clears it. A refresh token
// that does not match the stored hash is treated as a replayed token and
// rejected with [ErrRefreshReuse]; the loser of a concurrent rotation gets
// [ErrRefreshDenied].
//
// # Performance contract
//
// ValidateAccess is the hot path. It verifies the access token without any
// store round-trip. The session-changing operations each take a constant
// number of store round-trips: logout one, sign-up and sign-in two, refresh
// a read plus the conditional swap.
package authgate
