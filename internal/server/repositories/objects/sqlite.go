package objects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// SQLiteRepository implements the catalog over a DBTX backed by SQLite.
// Used for single-node deployments and in tests.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, o *models.VaultObject) error {
	query := `
		INSERT INTO vault_objects (` + objectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.RawNameWasModified, string(o.Kind), o.SizeBytes, o.MimeType,
		o.CreatedAt, o.OwnerID, o.OwnerName, o.ParentID, string(o.SecurityStatus), o.ThreatScore, o.AnalysisNote)
	if err != nil {
		return fmt.Errorf("failed to insert object: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.VaultObject, error) {
	query := `SELECT ` + objectColumns + ` FROM vault_objects WHERE id = ?`
	o, err := scanObject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return o, nil
}

func (r *SQLiteRepository) ListByParent(ctx context.Context, parentID *string) ([]*models.VaultObject, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = r.db.QueryContext(ctx, `SELECT `+objectColumns+` FROM vault_objects WHERE parent_id IS NULL`)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+objectColumns+` FROM vault_objects WHERE parent_id = ?`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select objects: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultObject
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vault_objects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SetScanVerdict(ctx context.Context, id string, v *models.ScanVerdict) error {
	query := `
		UPDATE vault_objects
		SET security_status = ?, threat_score = ?, analysis_note = ?
		WHERE id = ? AND kind = ? AND security_status = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		string(v.Status), v.Score, v.Analysis, id, string(models.KindFile), string(models.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to update object: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return common.ErrInvalidTransition
}

func (r *SQLiteRepository) CountByStatus(ctx context.Context) (*models.StatusCounts, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT security_status, COUNT(*) FROM vault_objects GROUP BY security_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count objects: %w", err)
	}
	defer rows.Close()

	counts := &models.StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts.Total += n
		switch models.SecurityStatus(status) {
		case models.StatusPending:
			counts.Pending = n
		case models.StatusClean:
			counts.Clean = n
		case models.StatusWarning:
			counts.Warning = n
		case models.StatusInfected:
			counts.Infected = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
