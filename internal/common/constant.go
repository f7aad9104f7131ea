package common

// Upload policy defaults. Config may override the size cap; the extension
// allow-list is fixed vault policy.
const (
	// MaxFileSizeBytes is the default upload size cap (10 MiB).
	MaxFileSizeBytes = 10 * 1024 * 1024
)

// AllowedExtensions lists the lowercase file extensions (without the dot)
// that the vault accepts for upload.
var AllowedExtensions = []string{"pdf", "jpg", "jpeg", "png", "txt", "docx", "xlsx"}

// FailOpenAnalysisNote is recorded on a file when the classifier fails and
// the scan defaults to CLEAN. The wording is part of the audit contract.
const FailOpenAnalysisNote = "Automatic check failed, defaulted to CLEAN for demo purposes."

// AuditLogCap is the maximum number of audit entries retained. Appends past
// the cap evict the oldest entries in insertion order.
const AuditLogCap = 200
