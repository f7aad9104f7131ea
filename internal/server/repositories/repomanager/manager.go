// Package repomanager vends storage-backend-specific repository
// implementations behind a single interface, so the service layer stays
// agnostic of where the catalog and the audit log live.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/audit"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/objects"
)

// RepositoryManager builds repositories bound to a DBTX. SQL backends pass
// *sql.DB or an open transaction; the in-memory backend ignores the handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Objects(db dbx.DBTX) objects.Repository
	Audit(db dbx.DBTX) audit.Repository
}
