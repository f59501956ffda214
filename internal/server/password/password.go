// Package password hashes and verifies user passwords with bcrypt.
//
// Hashes are produced at a single process-wide cost (DefaultCost) and carry
// their own algorithm tag, cost and random salt, so Verify needs nothing
// but the plaintext and the stored string.
package password

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clouddb/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for every hash.
const DefaultCost = bcrypt.DefaultCost

// MaxLength is the hard input limit of bcrypt, in bytes.
const MaxLength = 72

// Hasher is the contract the HTTP surface and the CLI depend on.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) (bool, error)
}

// HashingError reports a failure of the hashing primitive or a hash that is
// not well-formed. It matches common.ErrHashing.
type HashingError struct {
	Op  string
	Err error
}

func (e *HashingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *HashingError) Unwrap() []error {
	return []error{common.ErrHashing, e.Err}
}

// Bcrypt implements Hasher at a fixed cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a Hasher at DefaultCost.
func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: DefaultCost}
}

// Hash returns an encoded bcrypt hash of plaintext. No length or complexity
// rules are applied; the empty string yields a valid (weak) hash.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", &HashingError{Op: "hash", Err: err}
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hashed. A mismatch is (false, nil);
// a malformed hash is an error, never a silent false.
func (b *Bcrypt) Verify(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, &HashingError{Op: "verify", Err: err}
	}
}

var std = NewBcrypt()

// Hash hashes plaintext at DefaultCost.
func Hash(plaintext string) (string, error) {
	return std.Hash(plaintext)
}

// Verify checks plaintext against an encoded hash.
func Verify(plaintext, hashed string) (bool, error) {
	return std.Verify(plaintext, hashed)
}

// Cost returns the work factor embedded in an encoded hash.
func Cost(hashed string) (int, error) {
	c, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		return 0, &HashingError{Op: "cost", Err: err}
	}
	return c, nil
}
