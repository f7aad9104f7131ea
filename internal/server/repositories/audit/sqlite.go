package audit

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// SQLiteRepository implements the audit log over a DBTX backed by SQLite.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, ts, actor_id, actor_username, action, detail, severity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Timestamp, e.ActorID, e.ActorUsername, string(e.Action), e.Detail, string(e.Severity))
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	evict := `
		DELETE FROM audit_log
		WHERE seq NOT IN (SELECT seq FROM audit_log ORDER BY seq DESC LIMIT ?)
	`
	if _, err := r.db.ExecContext(ctx, evict, common.AuditLogCap); err != nil {
		return fmt.Errorf("failed to evict audit entries: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Tail(ctx context.Context, n int) ([]*models.AuditEntry, error) {
	if n <= 0 || n > common.AuditLogCap {
		n = common.AuditLogCap
	}
	query := `
		SELECT id, ts, actor_id, actor_username, action, detail, severity
		FROM audit_log ORDER BY seq DESC LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to select audit entries: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		var action, severity string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActorID, &e.ActorUsername, &action, &e.Detail, &severity); err != nil {
			return nil, err
		}
		e.Action = models.AuditAction(action)
		e.Severity = models.AuditSeverity(severity)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
