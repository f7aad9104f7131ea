// Package objects provides the vault object catalog repositories: the
// persistent hierarchical store of file and folder metadata.
package objects

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository is the storage port for the object catalog. Implementations
// must observe each call atomically: concurrent readers never see a
// half-written object.
//
// Invariant enforcement is split: repositories guarantee id uniqueness and
// the PENDING-only scan update; the vault service owns policy, RBAC and
// parent validation.
type Repository interface {
	// Create persists a new object. The id must be unique.
	Create(ctx context.Context, o *models.VaultObject) error

	// Get returns the object by id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.VaultObject, error)

	// ListByParent returns all objects whose ParentID equals parentID
	// (nil = root), in no particular order.
	ListByParent(ctx context.Context, parentID *string) ([]*models.VaultObject, error)

	// Delete removes the object by id, or returns common.ErrNotFound.
	// Descendants are untouched: folder deletion is shallow.
	Delete(ctx context.Context, id string) error

	// SetScanVerdict records the terminal scan verdict for a FILE that is
	// still PENDING. Returns common.ErrNotFound if the object is gone and
	// common.ErrInvalidTransition if it is a folder or already terminal.
	// The check and the write are a single atomic step.
	SetScanVerdict(ctx context.Context, id string, v *models.ScanVerdict) error

	// CountByStatus aggregates catalog totals per security status.
	CountByStatus(ctx context.Context) (*models.StatusCounts, error)
}
