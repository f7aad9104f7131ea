package audit

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE audit_log (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			ts TIMESTAMP NOT NULL,
			actor_id TEXT NOT NULL,
			actor_username TEXT NOT NULL,
			action TEXT NOT NULL,
			detail TEXT NOT NULL,
			severity TEXT NOT NULL
		);
	`)
	require.NoError(t, err)
	return db
}

func entry(i int) *models.AuditEntry {
	return &models.AuditEntry{
		ID:            fmt.Sprintf("log-%d", i),
		Timestamp:     time.Now().UTC(),
		ActorID:       "u-1",
		ActorUsername: "alice",
		Action:        models.ActionFileUpload,
		Detail:        fmt.Sprintf("entry %d", i),
		Severity:      models.SeverityInfo,
	}
}

// both implementations must satisfy the same cap and ordering contract
func repos(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"sqlite":   NewSQLiteRepository(setupDB(t)),
		"inmemory": NewInMemoryRepository(),
	}
}

func TestAppendAndTail_NewestFirst(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				require.NoError(t, repo.Append(ctx, entry(i)))
			}

			tail, err := repo.Tail(ctx, 3)
			require.NoError(t, err)
			require.Len(t, tail, 3)
			assert.Equal(t, "log-4", tail[0].ID)
			assert.Equal(t, "log-3", tail[1].ID)
			assert.Equal(t, "log-2", tail[2].ID)
		})
	}
}

func TestAppend_EvictsPastCap(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < common.AuditLogCap+1; i++ {
				require.NoError(t, repo.Append(ctx, entry(i)))
			}

			all, err := repo.Tail(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, common.AuditLogCap)

			// the oldest entry is gone, the newest survives
			assert.Equal(t, fmt.Sprintf("log-%d", common.AuditLogCap), all[0].ID)
			assert.Equal(t, "log-1", all[len(all)-1].ID)
		})
	}
}

func TestTail_LimitLargerThanLog(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Append(ctx, entry(0)))

			tail, err := repo.Tail(ctx, 50)
			require.NoError(t, err)
			assert.Len(t, tail, 1)
		})
	}
}
