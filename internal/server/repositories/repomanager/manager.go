package repomanager

import (
	"context"
	"database/sql"

	"filesafe/internal/dbx"
	"filesafe/internal/server/repositories/files"
	"filesafe/internal/server/repositories/folders"
	"filesafe/internal/server/repositories/persons"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can use
// the same repository code against the pooled connection or against an open
// transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Persons(db dbx.DBTX) persons.Repository
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
}
