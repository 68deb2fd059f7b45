package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshSecret returns the hex SHA-256 digest of a refresh-token
// secret. Deterministic on purpose: the digest is a storage lookup key for
// a high-entropy random secret, not a password, so per-call salting would
// only break the lookup.
func HashRefreshSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
