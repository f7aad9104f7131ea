package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenFromEnv(t *testing.T) {
	t.Setenv("VAULT_TOKEN", "env-token")

	var out bytes.Buffer
	token, err := GetToken(&out)
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)
	assert.Empty(t, out.String(), "no prompt when the env var is set")
}

func TestGetTokenPrompted(t *testing.T) {
	t.Setenv("VAULT_TOKEN", "")

	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("  typed-token \n"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	token, err := GetToken(&out)
	require.NoError(t, err)
	assert.Equal(t, "typed-token", token)
	assert.Contains(t, out.String(), "Enter API token")
}

func TestGetTokenErrors(t *testing.T) {
	t.Setenv("VAULT_TOKEN", "")

	orig := readPassword
	defer func() { readPassword = orig }()

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	var out bytes.Buffer
	_, err := GetToken(&out)
	assert.Error(t, err)

	readPassword = func(int) ([]byte, error) { return []byte("   "), nil }
	_, err = GetToken(&out)
	assert.ErrorContains(t, err, "empty token")
}
