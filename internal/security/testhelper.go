package security

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// NewTestTokenCodec returns a TokenCodec with fixed secrets. For unit tests only.
func NewTestTokenCodec() *TokenCodec {
	return NewTokenCodec("test-access-secret", "test-refresh-secret", "test-issuer", 15*time.Minute, 7*24*time.Hour)
}

// NewTestHasher returns a Hasher at bcrypt.MinCost so tests stay fast. For unit tests only.
func NewTestHasher() *Hasher {
	return &Hasher{Cost: bcrypt.MinCost}
}
