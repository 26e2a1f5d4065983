package repomanager

import (
	"context"
	"database/sql"

	"github.com/docvault-app/docvault/internal/dbx"
	"github.com/docvault-app/docvault/internal/server/repositories/categories"
	"github.com/docvault-app/docvault/internal/server/repositories/documents"
	"github.com/docvault-app/docvault/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either a plain
// connection or a transaction, so services control their own transaction
// boundaries.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
	Categories(db dbx.DBTX) categories.Repository
}
