// Package common defines shared constants and sentinel errors used across
// the server, the credential CLI and their tests. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Password hashing errors (malformed hash, primitive failure).
	ErrHashing = errors.New("password hashing error")

	// Token errors. Callers tell ErrTokenExpired apart from the rest to decide
	// between prompting re-authentication and rejecting outright.
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenPayload          = errors.New("invalid token payload")
	ErrTokenSigning          = errors.New("token signing failed")

	// Configuration errors.
	ErrConfiguration = errors.New("configuration error")
)
