package repomanager

import (
	"context"
	"database/sql"

	"github.com/netinvest/server/internal/dbx"
	"github.com/netinvest/server/internal/server/repositories/flags"
	"github.com/netinvest/server/internal/server/repositories/refreshtokens"
	"github.com/netinvest/server/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Flags(db dbx.DBTX) flags.Repository
}
