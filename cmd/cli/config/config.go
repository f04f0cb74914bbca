package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".pwasset_token"
)

// ErrNotLoggedIn is returned by ReadToken when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in: run `pwasset login` first")

// APIURL returns the base URL for the pwasset API.
// It can be overridden with the PWASSET_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("PWASSET_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// TokenPath is where the session token is kept. PWASSET_TOKEN_FILE overrides
// the default of ~/.pwasset_token.
func TokenPath() (string, error) {
	if v := os.Getenv("PWASSET_TOKEN_FILE"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, tokenFileName), nil
}

// SaveToken stores token readable by the current user only.
func SaveToken(token string) error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// ReadToken returns the stored token.
func ReadToken() (string, error) {
	path, err := TokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// ClearToken removes the stored token. A missing file is not an error.
func ClearToken() error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
