package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrHashing,
		ErrTokenMalformed,
		ErrTokenSignatureInvalid,
		ErrTokenExpired,
		ErrTokenPayload,
		ErrTokenSigning,
		ErrConfiguration,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("verify: %w", ErrTokenExpired)
	if !errors.Is(wrapped, ErrTokenExpired) {
		t.Fatal("wrapped sentinel not matched")
	}
	if errors.Is(wrapped, ErrTokenMalformed) {
		t.Fatal("wrapped sentinel matched the wrong kind")
	}
}
