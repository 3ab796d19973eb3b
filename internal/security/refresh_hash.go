package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// refreshDigest returns the hex SHA-256 of a refresh token. Signed tokens exceed bcrypt's
// 72-byte input limit, so the digest is what gets bcrypt-hashed.
func refreshDigest(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(h[:]))
}

// HashRefreshToken returns a bcrypt hash of the token's SHA-256 digest for storage.
func (h *Hasher) HashRefreshToken(token string) (string, error) {
	return h.Hash(refreshDigest(token))
}

// RefreshTokenMatches reports whether token hashes to storedHash. Empty inputs never match.
func (h *Hasher) RefreshTokenMatches(storedHash, token string) bool {
	if storedHash == "" || token == "" {
		return false
	}
	return h.Compare(storedHash, refreshDigest(token)) == nil
}
