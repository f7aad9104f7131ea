// Package sanitize normalizes untrusted display names before they enter the
// catalog.
package sanitize

import "strings"

// Name replaces every character outside [A-Za-z0-9.-] with '_'. It is total
// and idempotent. An all-invalid input sanitizes to underscores, and an
// empty input stays empty; callers accept both.
func Name(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Modified reports whether sanitizing raw changed it.
func Modified(raw string) bool {
	return Name(raw) != raw
}
