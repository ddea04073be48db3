// Package password implements secret hashing and verification with Argon2id.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Verification is strict but non-fatal: a malformed or foreign digest reports
// a failed match rather than an error, so a corrupted stored hash behaves like
// a wrong secret.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. It hashes both passwords
// and refresh-token fingerprints; input policy is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve secrets. Callers supply plaintext and receive hashes.
//   - Import any other authgate package.
//   - Log plaintext secrets or salts at runtime.
package password
