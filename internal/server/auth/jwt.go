// Package auth issues and verifies HS256-signed JWTs carrying user, tenant
// and role claims.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clouddb/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Role names known to the portal. They are carried in tokens but not
// enforced here.
const (
	RoleViewer      = "Viewer"
	RoleDeveloper   = "Developer"
	RoleTenantAdmin = "Tenant Admin"
	RoleSuperAdmin  = "Super Admin"
)

// Claims is the identity payload embedded in a token. Timestamps are Unix
// seconds.
type Claims struct {
	UserID    int64  `json:"user_id"`
	TenantID  int64  `json:"tenant_id"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// NewClaims stamps iat with the current time and exp with iat plus the given
// number of hours.
func NewClaims(userID, tenantID int64, role string, expirationHours int64) Claims {
	now := time.Now().Unix()
	return Claims{
		UserID:    userID,
		TenantID:  tenantID,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now + expirationHours*3600,
	}
}

// Lifetime is exp - iat.
func (c Claims) Lifetime() time.Duration {
	return time.Duration(c.ExpiresAt-c.IssuedAt) * time.Second
}

// jwt.Claims implementation, so the library validator can enforce exp.

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return "", nil }
func (c Claims) GetSubject() (string, error)             { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

var signingMethod = jwt.SigningMethodHS256

// ErrEmptySecret is the cause reported when signing is attempted without a key.
var ErrEmptySecret = errors.New("secret must not be empty")

// CreateToken signs claims with secret using HS256. An empty secret fails.
func CreateToken(claims Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", &TokenError{Kind: common.ErrTokenSigning, Err: ErrEmptySecret}
	}

	token := jwt.NewWithClaims(signingMethod, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", &TokenError{Kind: common.ErrTokenSigning, Err: err}
	}

	return tokenString, nil
}

// VerifyToken checks structure and signature first, then decodes the payload
// into Claims and finally rejects tokens whose exp is at or before now.
func VerifyToken(tokenString string, secret []byte) (Claims, error) {
	return verifyToken(tokenString, secret, time.Now)
}

func verifyToken(tokenString string, secret []byte, now func() time.Time) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithJSONNumber(),
		jwt.WithoutClaimsValidation(),
	)

	raw := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(tokenString, raw, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	claims, err := decodeClaims(raw)
	if err != nil {
		return Claims{}, &TokenError{Kind: common.ErrTokenPayload, Err: err}
	}

	validator := jwt.NewValidator(
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err := validator.Validate(claims); err != nil {
		return Claims{}, classify(err)
	}

	return claims, nil
}

func decodeClaims(raw jwt.MapClaims) (Claims, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return Claims{}, err
	}

	var c Claims
	if err := json.Unmarshal(b, &c); err != nil {
		return Claims{}, err
	}
	if _, ok := raw["exp"]; !ok {
		return Claims{}, fmt.Errorf("missing exp")
	}
	if _, ok := raw["iat"]; !ok {
		return Claims{}, fmt.Errorf("missing iat")
	}

	return c, nil
}
