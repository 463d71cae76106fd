// Package session owns administrator authentication state: an opaque
// token obtained at login, held for the life of the process and persisted
// under a single well-known file for reuse across invocations.
//
// The session is an explicit object handed to whoever needs it; there is
// no ambient global token. Lifecycle: Load (restore a persisted token),
// Login (create), Logout (destroy). No refresh, no expiry tracking, no
// revocation handling: the token is trusted until explicit logout.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lenninsorteos/sorteo/internal/api"
)

// ErrInvalidCredentials is returned for every failed login. The caller
// deliberately cannot tell a wrong password from an unknown account or a
// transport failure; the underlying cause goes to the log only.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotAuthenticated is returned by operations that require a logged-in
// administrator.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session tracks the administrator's authentication state and keeps the
// API client's bearer credential in sync with it.
type Session struct {
	client *api.Client
	store  *TokenStore
	logger *slog.Logger

	// mu guards token: Authenticated is read from request goroutines
	// while login and logout write from the interactive one.
	mu    sync.RWMutex
	token string
}

// New creates a Session bound to an API client and a token store.
func New(client *api.Client, store *TokenStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{client: client, store: store, logger: logger}
}

// Load restores a previously persisted token, if any. A missing token
// file simply leaves the session unauthenticated.
func (s *Session) Load() {
	token, err := s.store.Load()
	if err != nil {
		s.logger.Debug("no persisted admin token", "error", err)
		return
	}
	s.setToken(token)
}

// Login exchanges credentials for a token. On success the session becomes
// authenticated and the token is persisted; on any failure the session is
// left unchanged and ErrInvalidCredentials is returned.
func (s *Session) Login(ctx context.Context, email, password string) error {
	response, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("admin login failed", "error", err)
		return ErrInvalidCredentials
	}
	if !response.Success || response.Token == "" {
		s.logger.Warn("admin login rejected")
		return ErrInvalidCredentials
	}
	s.setToken(response.Token)
	if err := s.store.Save(response.Token); err != nil {
		// The in-memory session still works for this process.
		s.logger.Warn("persisting admin token failed", "error", err)
	}
	return nil
}

// Logout clears the authenticated state and removes the persisted token.
// It does not call the server.
func (s *Session) Logout() {
	s.setToken("")
	if err := s.store.Clear(); err != nil {
		s.logger.Warn("removing persisted admin token failed", "error", err)
	}
}

// setToken updates the session state and keeps the client's bearer
// credential in step with it.
func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.client.SetToken(token)
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current opaque token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
