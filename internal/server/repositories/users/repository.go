// Package users declares the repository contract for identity records in
// persistent storage.
package users

import (
	"context"

	"github.com/netinvest/server/internal/server/models"
)

type Repository interface {
	// Create stores a new user and returns it with its generated id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername looks up a user by unique username. Implementations
	// should return a not-found error when the user is absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID looks up a user by primary key. Implementations should
	// return a not-found error when the user is absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Count returns the total number of users. Used by the first-run
	// admin bootstrap.
	Count(ctx context.Context) (int64, error)
}
