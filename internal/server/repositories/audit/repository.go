// Package audit provides the append-only, bounded audit trail repositories.
package audit

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository is the storage port for the audit log. Append is the only
// mutation; entries are never edited or individually removed. Each
// implementation keeps at most common.AuditLogCap entries, evicting the
// oldest first by insertion order.
type Repository interface {
	// Append stores the entry and evicts everything past the cap.
	Append(ctx context.Context, e *models.AuditEntry) error

	// Tail returns the n most recent entries, newest first. n <= 0 means
	// everything retained.
	Tail(ctx context.Context, n int) ([]*models.AuditEntry, error)
}
