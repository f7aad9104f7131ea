// Package models contains the server-side domain types of the file vault:
// principals, vault objects, audit entries and scan verdicts.
package models

import "fmt"

// Role is the closed set of vault roles. Unknown role strings are rejected
// at the identity boundary, never inside the core.
type Role string

const (
	// RoleAdmin sees and mutates everything.
	RoleAdmin Role = "ADMIN"
	// RoleUploader sees and mutates only self-owned objects.
	RoleUploader Role = "UPLOADER"
	// RoleViewer sees everything, mutates nothing.
	RoleViewer Role = "VIEWER"
)

// ParseRole maps a raw role string onto the closed Role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUploader, RoleViewer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Principal is the authenticated identity attached to every call. It is
// issued by an external authenticator and never mutated by the core.
type Principal struct {
	ID       string
	Username string
	Role     Role
}
