// Package cli holds terminal input helpers for vaultctl.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetToken resolves the API token: the VAULT_TOKEN environment variable
// wins; otherwise the user is prompted without echo.
func GetToken(w io.Writer) (string, error) {
	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		return token, nil
	}

	if _, err := fmt.Fprint(w, "Enter API token: "); err != nil {
		return "", err
	}
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("empty token")
	}
	return token, nil
}
