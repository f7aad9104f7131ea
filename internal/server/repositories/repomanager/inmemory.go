package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/audit"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/objects"
)

// InMemoryRepositoryManager holds singleton in-memory repositories. The
// DBTX handle is ignored; there is no database underneath.
type InMemoryRepositoryManager struct {
	objects *objects.InMemoryRepository
	audit   *audit.InMemoryRepository
}

// NewInMemoryRepositoryManager constructs a manager with empty stores.
func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		objects: objects.NewInMemoryRepository(),
		audit:   audit.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Objects(db dbx.DBTX) objects.Repository {
	return m.objects
}

func (m *InMemoryRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return m.audit
}
