package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/civicreport/internal/dbx"
	"github.com/dmitrijs2005/civicreport/internal/server/repositories/issues"
	"github.com/dmitrijs2005/civicreport/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can run several repository calls atomically.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Issues(db dbx.DBTX) issues.Repository
}
