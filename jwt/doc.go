// Package jwt manages access- and refresh-token issuance and verification.
// The two token kinds are signed with distinct keys, so a token of one kind
// can never verify as the other.
package jwt
