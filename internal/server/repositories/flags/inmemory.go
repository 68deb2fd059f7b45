package flags

import (
	"context"
	"sync"

	"github.com/netinvest/server/internal/server/models"
)

// InMemoryRepository is a slice-backed Repository used by tests and local
// experiments. Safe for concurrent use.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   []*models.Flag
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) FindFlagIDsBySubject(ctx context.Context, subjectID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{})
	var flagIDs []string
	for _, row := range r.rows {
		if row.SubjectID != subjectID {
			continue
		}
		if _, ok := seen[row.FlagID]; ok {
			continue
		}
		seen[row.FlagID] = struct{}{}
		flagIDs = append(flagIDs, row.FlagID)
	}
	return flagIDs, nil
}

func (r *InMemoryRepository) FindByFlagIDs(ctx context.Context, flagIDs []string) ([]*models.Flag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]struct{}, len(flagIDs))
	for _, id := range flagIDs {
		wanted[id] = struct{}{}
	}

	var result []*models.Flag
	for _, row := range r.rows {
		if _, ok := wanted[row.FlagID]; ok {
			copied := *row
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *InMemoryRepository) ExistsFlagID(ctx context.Context, flagID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.FlagID == flagID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) CreateBatch(ctx context.Context, flags []*models.Flag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range flags {
		r.nextID++
		copied := *f
		copied.ID = r.nextID
		r.rows = append(r.rows, &copied)
	}
	return nil
}

func (r *InMemoryRepository) DeleteByFlagID(ctx context.Context, flagID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*models.Flag
	var deleted int64
	for _, row := range r.rows {
		if row.FlagID == flagID {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return deleted, nil
}
