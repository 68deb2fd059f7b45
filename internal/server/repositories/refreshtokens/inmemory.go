package refreshtokens

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and local
// experiments. The mutex gives Revoke the same at-most-once flip guarantee
// the conditional UPDATE provides in PostgreSQL.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	byHash map[string]*models.RefreshToken
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byHash: make(map[string]*models.RefreshToken)}
}

func (r *InMemoryRepository) Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byHash[tokenHash]; ok {
		return common.ErrorAlreadyExists
	}

	r.nextID++
	now := time.Now().UTC()
	r.byHash[tokenHash] = &models.RefreshToken{
		ID:        fmt.Sprintf("t-%d", r.nextID),
		UserID:    userID,
		TokenHash: tokenHash,
		Expires:   now.Add(validity),
		CreatedAt: now,
	}
	return nil
}

func (r *InMemoryRepository) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.byHash[tokenHash]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *token
	return &copied, nil
}

func (r *InMemoryRepository) Revoke(ctx context.Context, tokenHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.byHash[tokenHash]
	if !ok || token.Revoked {
		return false, nil
	}
	token.Revoked = true
	return true, nil
}

func (r *InMemoryRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, token := range r.byHash {
		if token.UserID == userID && !token.Revoked {
			token.Revoked = true
			count++
		}
	}
	return count, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byHash, tokenHash)
	return nil
}

// Len reports the number of stored rows. Test helper.
func (r *InMemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byHash)
}
