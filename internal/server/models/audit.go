package models

import "time"

// AuditAction tags what a log entry records.
type AuditAction string

const (
	ActionFileUpload   AuditAction = "FILE_UPLOAD"
	ActionFolderCreate AuditAction = "FOLDER_CREATE"
	ActionFileDelete   AuditAction = "FILE_DELETE"
	ActionFolderDelete AuditAction = "FOLDER_DELETE"
	ActionFileDownload AuditAction = "FILE_DOWNLOAD"
	ActionScanComplete AuditAction = "SCAN_COMPLETE"
)

// AuditSeverity grades log entries for the dashboard.
type AuditSeverity string

const (
	SeverityInfo     AuditSeverity = "INFO"
	SeverityWarning  AuditSeverity = "WARNING"
	SeverityCritical AuditSeverity = "CRITICAL"
)

// AuditEntry is an immutable record of a mutating vault action. The log is
// append-only; entries are never edited or individually deleted, only
// evicted in bulk past the retention cap.
type AuditEntry struct {
	ID            string
	Timestamp     time.Time
	ActorID       string
	ActorUsername string
	Action        AuditAction
	Detail        string
	Severity      AuditSeverity
}
