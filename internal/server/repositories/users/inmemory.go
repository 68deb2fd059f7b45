package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and local
// experiments. Safe for concurrent use.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Username == user.Username {
			return nil, common.ErrorAlreadyExists
		}
	}

	r.nextID++
	stored := *user
	stored.ID = fmt.Sprintf("u-%d", r.nextID)
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byID {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

// SetActive flips the active flag of a stored user. Test helper.
func (r *InMemoryRepository) SetActive(id string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		user.IsActive = active
	}
}
