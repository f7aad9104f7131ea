// Package common defines shared constants and sentinel errors used across
// the layers of the file vault. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Policy errors (user-correctable, reported verbatim).
	ErrPolicyViolation = errors.New("policy violation")
	ErrInvalidParent   = errors.New("invalid parent folder")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition means an attempt to re-classify a terminal or
	// non-file object. Not reachable from external input; seeing it means a
	// caller bug.
	ErrInvalidTransition = errors.New("invalid security status transition")

	// ErrBlocked means a download of an infected object. Always denied,
	// never escalated or retried.
	ErrBlocked = errors.New("download blocked")

	// Identity boundary errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownRole  = errors.New("unknown role")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")
)
