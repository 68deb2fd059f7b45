// Package flags declares the repository contract for risk-flag rows.
package flags

import (
	"context"

	"github.com/netinvest/server/internal/server/models"
)

type Repository interface {
	// FindFlagIDsBySubject returns the distinct flag ids attached to a
	// subject node.
	FindFlagIDsBySubject(ctx context.Context, subjectID string) ([]string, error)

	// FindByFlagIDs returns every row whose flag id is in the given set.
	FindByFlagIDs(ctx context.Context, flagIDs []string) ([]*models.Flag, error)

	// ExistsFlagID reports whether any row carries the flag id.
	ExistsFlagID(ctx context.Context, flagID string) (bool, error)

	// CreateBatch inserts one row per flagged subject.
	CreateBatch(ctx context.Context, flags []*models.Flag) error

	// DeleteByFlagID removes every row with the flag id and returns the
	// number of rows deleted.
	DeleteByFlagID(ctx context.Context, flagID string) (int64, error)
}
