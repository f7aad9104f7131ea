package models

import "time"

// ObjectKind distinguishes files from folders in the catalog.
type ObjectKind string

const (
	KindFile   ObjectKind = "FILE"
	KindFolder ObjectKind = "FOLDER"
)

// SecurityStatus is the lifecycle state of a file's threat classification.
//
// Files start at PENDING and move exactly once to CLEAN, WARNING or
// INFECTED; once non-PENDING the status is terminal. Folders are not
// scanned and are always CLEAN.
type SecurityStatus string

const (
	StatusPending  SecurityStatus = "PENDING"
	StatusClean    SecurityStatus = "CLEAN"
	StatusWarning  SecurityStatus = "WARNING"
	StatusInfected SecurityStatus = "INFECTED"
)

// Terminal reports whether the status may no longer change.
func (s SecurityStatus) Terminal() bool {
	return s == StatusClean || s == StatusWarning || s == StatusInfected
}

// VaultObject is a file or folder entry in the hierarchical catalog.
//
// ID and OwnerID are immutable after creation. ParentID is nil for root
// objects; when set it must reference an existing FOLDER.
type VaultObject struct {
	ID                 string
	Name               string
	RawNameWasModified bool
	Kind               ObjectKind
	SizeBytes          int64
	MimeType           string
	CreatedAt          time.Time
	OwnerID            string
	OwnerName          string
	ParentID           *string
	SecurityStatus     SecurityStatus
	ThreatScore        *int
	AnalysisNote       *string
}

// IsFolder reports whether the object is a folder.
func (o *VaultObject) IsFolder() bool {
	return o.Kind == KindFolder
}

// VisibleTo applies the vault visibility rule: admins and viewers see every
// object, uploaders see only their own.
func (o *VaultObject) VisibleTo(p *Principal) bool {
	return p.Role == RoleAdmin || p.Role == RoleViewer || o.OwnerID == p.ID
}

// ScanVerdict is the classifier's threat verdict for a file.
type ScanVerdict struct {
	Status   SecurityStatus
	Score    int
	Analysis string
}

// StatusCounts aggregates catalog totals per security status for the
// overview endpoint and the exported gauges.
type StatusCounts struct {
	Total    int
	Pending  int
	Clean    int
	Warning  int
	Infected int
}
