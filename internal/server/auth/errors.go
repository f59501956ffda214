package auth

import (
	"errors"

	"github.com/dmitrijs2005/clouddb/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenError is returned by CreateToken and VerifyToken. Kind is one of the
// common.ErrToken* sentinels, so errors.Is works against both the kind and
// the underlying library error.
type TokenError struct {
	Kind error
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *TokenError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsExpired reports whether err means the token was valid but has expired.
func IsExpired(err error) bool {
	return errors.Is(err, common.ErrTokenExpired)
}

// Reason is a short machine-readable name for the kind of err.
func Reason(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, common.ErrTokenPayload):
		return "payload_invalid"
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, common.ErrTokenSigning):
		return "signing_failed"
	default:
		return "invalid"
	}
}

// classify maps jwt/v5 errors onto the token error kinds.
func classify(err error) error {
	var kind error
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		kind = common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		kind = common.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing), errors.Is(err, jwt.ErrTokenInvalidClaims):
		kind = common.ErrTokenPayload
	default:
		kind = common.ErrTokenMalformed
	}
	return &TokenError{Kind: kind, Err: err}
}
