package security

import (
	"golang.org/x/crypto/bcrypt"
)

// MinRefreshCost is the lowest bcrypt cost accepted in configuration for stored credentials.
const MinRefreshCost = 12

// Hasher hashes and verifies passwords and refresh-token digests using bcrypt. Callers must not
// log or persist plaintext secrets.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given bcrypt cost, clamped to bcrypt's valid range.
// Zero or negative selects MinRefreshCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = MinRefreshCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash produces a bcrypt hash of secret. Inputs longer than 72 bytes are rejected by bcrypt.
func (h *Hasher) Hash(secret []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(secret, h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare verifies secret against the stored hash in constant time. Returns nil on match.
func (h *Hasher) Compare(hash string, secret []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), secret)
}
