package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/filevault/internal/dbx"
	sqlitemigrations "github.com/dmitrijs2005/filevault/internal/server/migrations/sqlite"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/audit"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/objects"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations
// for single-node deployments.
type SQLiteRepositoryManager struct{}

// NewSQLiteRepositoryManager constructs a SQLite-backed manager.
func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}

// Objects returns an objects.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Objects(db dbx.DBTX) objects.Repository {
	return objects.NewSQLiteRepository(db)
}

// Audit returns an audit.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewSQLiteRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
