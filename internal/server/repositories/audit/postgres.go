package audit

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// PostgresRepository implements the audit log over a dbx.DBTX. The seq
// bigserial column orders entries by insertion, independent of timestamp
// skew.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, ts, actor_id, actor_username, action, detail, severity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Timestamp, e.ActorID, e.ActorUsername, string(e.Action), e.Detail, string(e.Severity))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	evict := `
		DELETE FROM audit_log
		WHERE seq NOT IN (SELECT seq FROM audit_log ORDER BY seq DESC LIMIT $1)
	`
	if _, err := r.db.ExecContext(ctx, evict, common.AuditLogCap); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Tail(ctx context.Context, n int) ([]*models.AuditEntry, error) {
	if n <= 0 || n > common.AuditLogCap {
		n = common.AuditLogCap
	}
	query := `
		SELECT id, ts, actor_id, actor_username, action, detail, severity
		FROM audit_log ORDER BY seq DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		var action, severity string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActorID, &e.ActorUsername, &action, &e.Detail, &severity); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		e.Action = models.AuditAction(action)
		e.Severity = models.AuditSeverity(severity)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}
