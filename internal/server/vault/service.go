// Package vault implements the object catalog service: creation, listing,
// deletion and download of files and folders, the role-based visibility
// filter, and the audit trail around every mutation. All invariants of the
// catalog live here or in the repositories underneath.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	sc "github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/metrics"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/sanitize"
	"github.com/dmitrijs2005/filevault/internal/server/scan"
)

// test seams
var (
	nowFunc = time.Now

	newID = func() string { return uuid.New().String() }
)

// systemActor is recorded on audit entries produced by the scan callback,
// which has no human principal behind it.
var systemActor = models.Principal{ID: "system", Username: "scanner", Role: models.RoleAdmin}

// Scheduler hands a freshly created file off for background classification.
// Implemented by scan.Orchestrator.
type Scheduler interface {
	Enqueue(objectID string, md scan.Metadata)
}

// ContentSigner issues presigned content URLs. Implemented by
// blob.Presigner; may be nil when no object storage is configured, in which
// case create/download results carry no URL.
type ContentSigner interface {
	PutURL(ctx context.Context, objectID string) (string, error)
	GetURL(ctx context.Context, objectID string) (string, error)
}

// Service is the vault store. db is nil for the in-memory backend; SQL
// backends get every mutating operation wrapped in a transaction so the
// object write and its audit entry land atomically.
type Service struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	config    *sc.Config
	logger    logging.Logger
	scheduler Scheduler
	signer    ContentSigner
}

// NewService constructs the vault service. The scan scheduler is attached
// afterwards via SetScheduler because the orchestrator needs the service as
// its verdict sink.
func NewService(db *sql.DB, rm repomanager.RepositoryManager, config *sc.Config, signer ContentSigner, logger logging.Logger) *Service {
	return &Service{
		db:     db,
		rm:     rm,
		config: config,
		signer: signer,
		logger: logger.With("module", "vault"),
	}
}

// SetScheduler attaches the background scan scheduler. Without one, created
// files simply stay PENDING (useful in tests).
func (s *Service) SetScheduler(sched Scheduler) {
	s.scheduler = sched
}

func (s *Service) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// CreateRequest describes a new file or folder.
type CreateRequest struct {
	Name      string
	Kind      models.ObjectKind
	SizeBytes int64
	MimeType  string
	ParentID  *string
}

// CreateResult carries the created object plus, for files, a presigned URL
// the client uploads content to. The object is returned in PENDING state;
// classification completes in the background.
type CreateResult struct {
	Object    *models.VaultObject
	UploadURL string
}

// Create validates the request against the upload policy and the parent
// folder, persists the object together with its audit entry, and for files
// hands off to the scan scheduler.
func (s *Service) Create(ctx context.Context, p *models.Principal, req *CreateRequest) (*CreateResult, error) {
	if p.Role == models.RoleViewer {
		return nil, fmt.Errorf("%w: viewers cannot create objects", common.ErrForbidden)
	}

	switch req.Kind {
	case models.KindFile:
		if err := s.checkUploadPolicy(req); err != nil {
			return nil, err
		}
	case models.KindFolder:
		// folders carry no content; nothing to check beyond the parent
	default:
		return nil, fmt.Errorf("%w: unknown object kind %q", common.ErrPolicyViolation, req.Kind)
	}

	if err := s.validateParent(ctx, p, req.ParentID); err != nil {
		return nil, err
	}

	name := sanitize.Name(req.Name)
	o := &models.VaultObject{
		ID:                 newID(),
		Name:               name,
		RawNameWasModified: name != req.Name,
		Kind:               req.Kind,
		CreatedAt:          nowFunc().UTC(),
		OwnerID:            p.ID,
		OwnerName:          p.Username,
		ParentID:           req.ParentID,
	}

	if req.Kind == models.KindFolder {
		o.SizeBytes = 0
		o.SecurityStatus = models.StatusClean
	} else {
		o.SizeBytes = req.SizeBytes
		o.MimeType = req.MimeType
		if o.MimeType == "" {
			o.MimeType = "application/octet-stream"
		}
		o.SecurityStatus = models.StatusPending
	}

	entry := s.newAuditEntry(p, models.ActionFileUpload, fmt.Sprintf("Uploaded %s to %s", o.Name, locationOf(req.ParentID)), models.SeverityInfo)
	if req.Kind == models.KindFolder {
		entry.Action = models.ActionFolderCreate
		entry.Detail = "Created container: " + o.Name
	}

	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Objects(tx).Create(ctx, o); err != nil {
			return err
		}
		return s.rm.Audit(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("create object: %w", err)
	}

	metrics.ObjectsTotal.WithLabelValues(string(o.SecurityStatus)).Inc()

	result := &CreateResult{Object: o}

	if o.Kind == models.KindFile {
		if s.signer != nil {
			url, err := s.signer.PutURL(ctx, o.ID)
			if err != nil {
				// metadata is the source of truth; a missing upload URL is
				// recoverable by re-requesting the download endpoint later
				s.logger.Warn(ctx, "content upload URL unavailable", "object_id", o.ID, "error", err.Error())
			} else {
				result.UploadURL = url
			}
		}
		if s.scheduler != nil {
			s.scheduler.Enqueue(o.ID, scan.Metadata{Name: o.Name, MimeType: o.MimeType, SizeBytes: o.SizeBytes})
		}
	}

	s.logger.Info(ctx, "object created", "object_id", o.ID, "kind", string(o.Kind), "owner", o.OwnerID)
	return result, nil
}

func (s *Service) checkUploadPolicy(req *CreateRequest) error {
	if req.SizeBytes < 0 {
		return fmt.Errorf("%w: negative size", common.ErrPolicyViolation)
	}
	if req.SizeBytes > s.config.MaxFileSizeBytes {
		return fmt.Errorf("%w: file size %d exceeds limit of %d bytes", common.ErrPolicyViolation, req.SizeBytes, s.config.MaxFileSizeBytes)
	}

	// extension check uses the raw name: sanitizing never touches dots
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Name), "."))
	if ext == "" {
		return fmt.Errorf("%w: missing file extension", common.ErrPolicyViolation)
	}
	for _, allowed := range common.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported file type .%s", common.ErrPolicyViolation, ext)
}

// validateParent checks that the parent exists, is a folder, is visible to
// the creator, and that its ancestry chain is acyclic.
func (s *Service) validateParent(ctx context.Context, p *models.Principal, parentID *string) error {
	if parentID == nil {
		return nil
	}

	repo := s.rm.Objects(s.db)

	parent, err := repo.Get(ctx, *parentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: parent folder does not exist", common.ErrInvalidParent)
		}
		return err
	}
	if !parent.IsFolder() {
		return fmt.Errorf("%w: parent is not a folder", common.ErrInvalidParent)
	}
	if !parent.VisibleTo(p) {
		return fmt.Errorf("%w: parent folder is not accessible", common.ErrInvalidParent)
	}

	// guard against a corrupted ancestry loop: ids are generated fresh on
	// create, so a healthy catalog can never trip this
	seen := map[string]struct{}{}
	cur := parent
	for cur.ParentID != nil {
		if _, ok := seen[cur.ID]; ok {
			return fmt.Errorf("%w: ancestry cycle detected", common.ErrInvalidParent)
		}
		seen[cur.ID] = struct{}{}
		next, err := repo.Get(ctx, *cur.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// orphaned ancestor after a shallow folder delete; the chain
				// still terminates
				return nil
			}
			return err
		}
		cur = next
	}
	return nil
}

// collator gives the locale-aware ordering used by listings. Listing order
// is a presentation contract: folders before files, names collated within
// each group.
var collator = collate.New(language.Und)

// List returns the children of parentID (nil = root) visible to p, filtered
// by the optional case-insensitive search term, folders first, names in
// collation order.
func (s *Service) List(ctx context.Context, p *models.Principal, parentID *string, search string) ([]*models.VaultObject, error) {
	items, err := s.rm.Objects(s.db).ListByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	needle := strings.ToLower(search)
	visible := make([]*models.VaultObject, 0, len(items))
	for _, o := range items {
		if !o.VisibleTo(p) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(o.Name), needle) {
			continue
		}
		visible = append(visible, o)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return collator.CompareString(a.Name, b.Name) < 0
	})

	return visible, nil
}

// Get returns a single object by id. Objects outside the caller's
// visibility are reported as not found rather than forbidden, so listings
// and lookups agree on what exists.
func (s *Service) Get(ctx context.Context, p *models.Principal, id string) (*models.VaultObject, error) {
	o, err := s.rm.Objects(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.VisibleTo(p) {
		return nil, common.ErrNotFound
	}
	return o, nil
}

// Delete removes the object. Only an admin or the owner may delete.
// Folder deletion is shallow: descendants keep their parent reference and
// drop out of listings for the deleted id, but stay addressable directly.
func (s *Service) Delete(ctx context.Context, p *models.Principal, id string) error {
	o, err := s.rm.Objects(s.db).Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Role != models.RoleAdmin && o.OwnerID != p.ID {
		return fmt.Errorf("%w: only the owner or an admin may delete", common.ErrForbidden)
	}

	entry := s.newAuditEntry(p, models.ActionFileDelete, "Deleted file: "+o.Name, models.SeverityInfo)
	if o.IsFolder() {
		entry.Action = models.ActionFolderDelete
		entry.Detail = "Deleted container: " + o.Name
	}

	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Objects(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.rm.Audit(tx).Append(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	metrics.ObjectsTotal.WithLabelValues(string(o.SecurityStatus)).Dec()
	s.logger.Info(ctx, "object deleted", "object_id", id, "actor", p.ID)
	return nil
}

// DownloadResult carries the object and a presigned content URL when object
// storage is configured.
type DownloadResult struct {
	Object *models.VaultObject
	URL    string
}

// Download gates content access. An INFECTED object is never downloadable,
// for any role including admin. Successful downloads are audited.
func (s *Service) Download(ctx context.Context, p *models.Principal, id string) (*DownloadResult, error) {
	o, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if o.IsFolder() {
		return nil, fmt.Errorf("%w: folders are not downloadable", common.ErrPolicyViolation)
	}
	if o.SecurityStatus == models.StatusInfected {
		metrics.DownloadsBlockedTotal.Inc()
		return nil, fmt.Errorf("%w: security integrity check failed", common.ErrBlocked)
	}

	entry := s.newAuditEntry(p, models.ActionFileDownload, "Downloaded "+o.Name, models.SeverityInfo)
	if err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Audit(tx).Append(ctx, entry)
	}); err != nil {
		return nil, fmt.Errorf("download audit: %w", err)
	}

	result := &DownloadResult{Object: o}
	if s.signer != nil {
		url, err := s.signer.GetURL(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("content URL: %w", err)
		}
		result.URL = url
	}
	return result, nil
}

// ApplyScanVerdict is the scan-completion callback. It moves a PENDING file
// to its terminal status exactly once and records the outcome in the audit
// log. A common.ErrNotFound return means the object was deleted mid-scan;
// the caller treats that as a no-op.
func (s *Service) ApplyScanVerdict(ctx context.Context, objectID string, v *models.ScanVerdict) error {
	severity := models.SeverityInfo
	switch v.Status {
	case models.StatusWarning:
		severity = models.SeverityWarning
	case models.StatusInfected:
		severity = models.SeverityCritical
	}

	entry := s.newAuditEntry(&systemActor, models.ActionScanComplete,
		fmt.Sprintf("Scan finished: status=%s score=%d", v.Status, v.Score), severity)

	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Objects(tx).SetScanVerdict(ctx, objectID, v); err != nil {
			return err
		}
		return s.rm.Audit(tx).Append(ctx, entry)
	})
	if err != nil {
		return err
	}

	failOpen := "false"
	if v.Analysis == common.FailOpenAnalysisNote {
		failOpen = "true"
	}
	metrics.ScansTotal.WithLabelValues(string(v.Status), failOpen).Inc()
	metrics.ObjectsTotal.WithLabelValues(string(models.StatusPending)).Dec()
	metrics.ObjectsTotal.WithLabelValues(string(v.Status)).Inc()

	s.logger.Info(ctx, "scan verdict applied", "object_id", objectID, "status", string(v.Status), "score", v.Score)
	return nil
}

// Stats aggregates catalog totals per security status. Admin only.
func (s *Service) Stats(ctx context.Context, p *models.Principal) (*models.StatusCounts, error) {
	if p.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: stats are admin-only", common.ErrForbidden)
	}
	counts, err := s.rm.Objects(s.db).CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count objects: %w", err)
	}
	return counts, nil
}

// AuditTail returns the n most recent audit entries, newest first. Admin
// only.
func (s *Service) AuditTail(ctx context.Context, p *models.Principal, n int) ([]*models.AuditEntry, error) {
	if p.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: the audit log is admin-only", common.ErrForbidden)
	}
	return s.rm.Audit(s.db).Tail(ctx, n)
}

func (s *Service) newAuditEntry(p *models.Principal, action models.AuditAction, detail string, severity models.AuditSeverity) *models.AuditEntry {
	return &models.AuditEntry{
		ID:            newID(),
		Timestamp:     nowFunc().UTC(),
		ActorID:       p.ID,
		ActorUsername: p.Username,
		Action:        action,
		Detail:        detail,
		Severity:      severity,
	}
}

func locationOf(parentID *string) string {
	if parentID == nil {
		return "root"
	}
	return "subfolder"
}
