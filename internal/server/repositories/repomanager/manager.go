// Package repomanager wires repositories to their backing store and owns
// schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/Monterolautaro/rentadoor-docvault/internal/dbx"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/repositories/documents"
)

// RepositoryManager constructs repositories over a DBTX and manages the
// schema they expect.
type RepositoryManager interface {
	Documents(db dbx.DBTX) documents.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
