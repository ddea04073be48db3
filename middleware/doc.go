// Package middleware exposes an HTTP middleware adapter built on top of
// authgate.Engine access-token validation.
//
// [Guard] reads the Authorization header, calls Engine.ValidateAccess, and
// injects the authenticated identity into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.ValidateAccess.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Touch the credential store (the access path is stateless).
//   - Make authorization decisions beyond pass/reject.
package middleware
