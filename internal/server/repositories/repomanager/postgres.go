package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/filevault/internal/dbx"
	pgmigrations "github.com/dmitrijs2005/filevault/internal/server/migrations/postgres"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/audit"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/objects"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed manager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// Objects returns an objects.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Objects(db dbx.DBTX) objects.Repository {
	return objects.NewPostgresRepository(db)
}

// Audit returns an audit.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
