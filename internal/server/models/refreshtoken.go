package models

import "time"

// RefreshToken is one issued, revocable session credential. Only the SHA-256
// digest of the secret is persisted; the plaintext secret is returned to the
// client once and never stored. A token is usable iff it is not revoked and
// not past its expiry. Revocation is permanent.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	Expires   time.Time
	Revoked   bool
	CreatedAt time.Time
}
