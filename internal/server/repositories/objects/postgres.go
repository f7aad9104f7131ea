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

// PostgresRepository implements the catalog over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const objectColumns = `id, name, raw_name_was_modified, kind, size_bytes, mime_type,
		created_at, owner_id, owner_name, parent_id, security_status, threat_score, analysis_note`

func (r *PostgresRepository) Create(ctx context.Context, o *models.VaultObject) error {
	query := `
		INSERT INTO vault_objects (` + objectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.RawNameWasModified, string(o.Kind), o.SizeBytes, o.MimeType,
		o.CreatedAt, o.OwnerID, o.OwnerName, o.ParentID, string(o.SecurityStatus), o.ThreatScore, o.AnalysisNote)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.VaultObject, error) {
	query := `SELECT ` + objectColumns + ` FROM vault_objects WHERE id = $1`
	o, err := scanObject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) ListByParent(ctx context.Context, parentID *string) ([]*models.VaultObject, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = r.db.QueryContext(ctx, `SELECT `+objectColumns+` FROM vault_objects WHERE parent_id IS NULL`)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+objectColumns+` FROM vault_objects WHERE parent_id = $1`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultObject
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vault_objects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// SetScanVerdict relies on the WHERE clause for atomicity: the row is only
// updated while it is still a PENDING file. A zero-row update is then
// disambiguated with a follow-up read.
func (r *PostgresRepository) SetScanVerdict(ctx context.Context, id string, v *models.ScanVerdict) error {
	query := `
		UPDATE vault_objects
		SET security_status = $1, threat_score = $2, analysis_note = $3
		WHERE id = $4 AND kind = $5 AND security_status = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		string(v.Status), v.Score, v.Analysis, id, string(models.KindFile), string(models.StatusPending))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := r.Get(ctx, id); err != nil {
		return err // common.ErrNotFound for deleted-mid-scan objects
	}
	return common.ErrInvalidTransition
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (*models.StatusCounts, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT security_status, COUNT(*) FROM vault_objects GROUP BY security_status`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counts := &models.StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
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
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return counts, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (*models.VaultObject, error) {
	o := &models.VaultObject{}
	var (
		kind        string
		status      string
		parentID    sql.NullString
		threatScore sql.NullInt64
		note        sql.NullString
	)
	err := row.Scan(&o.ID, &o.Name, &o.RawNameWasModified, &kind, &o.SizeBytes, &o.MimeType,
		&o.CreatedAt, &o.OwnerID, &o.OwnerName, &parentID, &status, &threatScore, &note)
	if err != nil {
		return nil, err
	}
	o.Kind = models.ObjectKind(kind)
	o.SecurityStatus = models.SecurityStatus(status)
	if parentID.Valid {
		p := parentID.String
		o.ParentID = &p
	}
	if threatScore.Valid {
		s := int(threatScore.Int64)
		o.ThreatScore = &s
	}
	if note.Valid {
		n := note.String
		o.AnalysisNote = &n
	}
	return o, nil
}
