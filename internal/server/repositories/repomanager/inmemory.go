package repomanager

import (
	"context"
	"database/sql"

	"github.com/netinvest/server/internal/dbx"
	"github.com/netinvest/server/internal/server/repositories/flags"
	"github.com/netinvest/server/internal/server/repositories/refreshtokens"
	"github.com/netinvest/server/internal/server/repositories/users"
)

// InMemoryRepositoryManager vends shared in-memory repositories. The DBTX
// argument is ignored, so every caller sees the same state regardless of
// transaction scope. Intended for tests.
type InMemoryRepositoryManager struct {
	users         *users.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRepository
	flags         *flags.InMemoryRepository
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) Flags(db dbx.DBTX) flags.Repository {
	return m.flags
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

// UserStore exposes the underlying in-memory users repository so tests can
// use its helpers directly.
func (m *InMemoryRepositoryManager) UserStore() *users.InMemoryRepository {
	return m.users
}

// RefreshTokenStore exposes the underlying in-memory refresh token repository.
func (m *InMemoryRepositoryManager) RefreshTokenStore() *refreshtokens.InMemoryRepository {
	return m.refreshTokens
}

// NewInMemoryRepositoryManager constructs an in-memory RepositoryManager.
func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewInMemoryRepository(),
		refreshTokens: refreshtokens.NewInMemoryRepository(),
		flags:         flags.NewInMemoryRepository(),
	}
}
