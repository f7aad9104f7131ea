package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean name untouched", "report-2024.pdf", "report-2024.pdf"},
		{"angle brackets replaced", "inv<>oice.PDF", "inv__oice.PDF"},
		{"spaces and slashes", "my file/../etc", "my_file_.._etc"},
		{"unicode replaced per rune", "отчёт.txt", "_____.txt"},
		{"all invalid", "<<>>", "____"},
		{"empty stays empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Name(tc.in))
		})
	}
}

func TestName_Idempotent(t *testing.T) {
	inputs := []string{"inv<>oice.PDF", "a b c.txt", "___", "простой.png", ""}
	for _, in := range inputs {
		once := Name(in)
		assert.Equal(t, once, Name(once), "sanitize must be idempotent for %q", in)
	}
}

func TestModified(t *testing.T) {
	assert.True(t, Modified("a b.txt"))
	assert.False(t, Modified("ab.txt"))
}
