package audit

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// InMemoryRepository keeps the log in a mutex-guarded slice ordered by
// insertion. Eviction drops from the front.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []*models.AuditEntry
}

// NewInMemoryRepository returns an empty in-memory audit log.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	r.entries = append(r.entries, &c)
	if over := len(r.entries) - common.AuditLogCap; over > 0 {
		r.entries = append([]*models.AuditEntry(nil), r.entries[over:]...)
	}
	return nil
}

func (r *InMemoryRepository) Tail(ctx context.Context, n int) ([]*models.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	result := make([]*models.AuditEntry, 0, n)
	for i := len(r.entries) - 1; i >= len(r.entries)-n; i-- {
		c := *r.entries[i]
		result = append(result, &c)
	}
	return result, nil
}
