package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the admin token as a single file. The token is the
// only durable state the client keeps.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store writing to the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Save writes the token, creating parent directories as needed. The file
// is created owner-readable only since it grants admin access.
func (ts *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(ts.path), 0o700); err != nil {
		return fmt.Errorf("session: creating token directory: %w", err)
	}
	if err := os.WriteFile(ts.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("session: writing token: %w", err)
	}
	return nil
}

// Load reads the persisted token. Returns an error when no token has
// been saved.
func (ts *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(ts.path)
	if err != nil {
		return "", fmt.Errorf("session: reading token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("session: token file is empty")
	}
	return token, nil
}

// Clear removes the persisted token. A token that was never saved is not
// an error.
func (ts *TokenStore) Clear() error {
	if err := os.Remove(ts.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: removing token: %w", err)
	}
	return nil
}
