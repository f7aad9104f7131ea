package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func TestSQLiteManager_MigrateAndUse(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := NewSQLiteRepositoryManager()
	ctx := context.Background()
	require.NoError(t, m.RunMigrations(ctx, db))

	repo := m.Objects(db)
	require.NoError(t, repo.Create(ctx, &models.VaultObject{
		ID: "f-1", Name: "a.txt", Kind: models.KindFile, MimeType: "text/plain",
		CreatedAt: time.Now(), OwnerID: "u-1", OwnerName: "alice",
		SecurityStatus: models.StatusPending,
	}))
	got, err := repo.Get(ctx, "f-1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Name)

	log := m.Audit(db)
	require.NoError(t, log.Append(ctx, &models.AuditEntry{
		ID: "log-1", Timestamp: time.Now(), ActorID: "u-1", ActorUsername: "alice",
		Action: models.ActionFileUpload, Detail: "x", Severity: models.SeverityInfo,
	}))
	tail, err := log.Tail(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "log-1", tail[0].ID)
}

func TestPostgresManager_RunMigrations_UsesSeam(t *testing.T) {
	called := false
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		return nil
	}
	t.Cleanup(func() { gooseUpContext = orig })

	m := NewPostgresRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), nil))
	assert.True(t, called)
}

func TestPostgresManager_RunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("migrate failed")
	}
	t.Cleanup(func() { gooseUpContext = orig })

	m := NewPostgresRepositoryManager()
	err := m.RunMigrations(context.Background(), nil)
	assert.EqualError(t, err, "migrate failed")
}
