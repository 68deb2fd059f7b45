// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage. Rows are keyed by the
// SHA-256 digest of the opaque secret; the secret itself never reaches
// this layer.
package refreshtokens

import (
	"context"
	"time"

	"github.com/netinvest/server/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens.
type Repository interface {
	// Create stores a new refresh token row for userID with an expiry of
	// now+validity.
	Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error

	// FindByHash looks up a refresh token row by its digest and returns
	// its metadata. Implementations should return a not-found error when
	// the row is absent.
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Revoke flips revoked to true for the row with the given digest,
	// but only if it is not revoked yet. It reports whether a row was
	// actually flipped; two racing callers see at most one true. This is
	// the single atomically-visible write rotation relies on.
	Revoke(ctx context.Context, tokenHash string) (bool, error)

	// RevokeAllForUser revokes every non-revoked token owned by the user
	// and returns the number of rows affected.
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)

	// Delete removes a refresh token row by its digest. Deleting a
	// non-existent row is not an error.
	Delete(ctx context.Context, tokenHash string) error
}
