package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/lenninsorteos/sorteo/internal/api"
)

// newLoginServer serves /admin/login with a fixed outcome and records the
// Authorization header of any other request it sees.
func newLoginServer(t *testing.T, success bool) (*api.Client, *string) {
	t.Helper()
	var lastAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin/login" {
			if !success {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "credenciales incorrectas"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "tok-abc"})
			return
		}
		lastAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]any{})
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, &lastAuth
}

func TestLogin_PersistsToken(t *testing.T) {
	client, lastAuth := newLoginServer(t, true)
	path := filepath.Join(t.TempDir(), "token")
	sess := New(client, NewTokenStore(path), nil)

	if err := sess.Login(context.Background(), "admin@sorteo.pe", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sess.Authenticated() || sess.Token() != "tok-abc" {
		t.Fatalf("session state after login: authenticated=%v token=%q", sess.Authenticated(), sess.Token())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading token file: %v", err)
	}
	if string(data) != "tok-abc" {
		t.Fatalf("persisted token = %q", data)
	}

	// The client now attaches the token as a bearer credential.
	if _, err := client.ListTickets(context.Background()); err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if *lastAuth != "Bearer tok-abc" {
		t.Fatalf("Authorization header = %q", *lastAuth)
	}
}

func TestLogin_FailureLeavesSessionUnchanged(t *testing.T) {
	client, _ := newLoginServer(t, false)
	path := filepath.Join(t.TempDir(), "token")
	sess := New(client, NewTokenStore(path), nil)

	err := sess.Login(context.Background(), "admin@sorteo.pe", "wrong")
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("session must stay unauthenticated after a failed login")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no token file should be written on failure")
	}
}

func TestLoad_RestoresPersistedToken(t *testing.T) {
	client, _ := newLoginServer(t, true)
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("tok-saved\n"), 0o600); err != nil {
		t.Fatalf("seeding token file: %v", err)
	}

	sess := New(client, NewTokenStore(path), nil)
	sess.Load()
	if !sess.Authenticated() || sess.Token() != "tok-saved" {
		t.Fatalf("restored token = %q", sess.Token())
	}
}

func TestLoad_MissingFileStaysLoggedOut(t *testing.T) {
	client, _ := newLoginServer(t, true)
	sess := New(client, NewTokenStore(filepath.Join(t.TempDir(), "token")), nil)
	sess.Load()
	if sess.Authenticated() {
		t.Fatal("load from a missing file must not authenticate")
	}
}

func TestLogout_ClearsStateAndFile(t *testing.T) {
	client, _ := newLoginServer(t, true)
	path := filepath.Join(t.TempDir(), "token")
	sess := New(client, NewTokenStore(path), nil)
	if err := sess.Login(context.Background(), "admin@sorteo.pe", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	sess.Logout()
	if sess.Authenticated() || sess.Token() != "" {
		t.Fatal("logout must clear the in-memory token")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("logout must remove the persisted token file")
	}
}

// TestSession_ConcurrentAuthenticatedAccess reads the session state
// while login and logout run on another goroutine, the interleaving the
// TUI produces when a refresh overlaps a logout. Run under the race
// detector this fails if the token is not guarded.
func TestSession_ConcurrentAuthenticatedAccess(t *testing.T) {
	client, _ := newLoginServer(t, true)
	sess := New(client, NewTokenStore(filepath.Join(t.TempDir(), "token")), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			sess.Authenticated()
			sess.Token()
		}
	}()
	for i := 0; i < 50; i++ {
		if err := sess.Login(context.Background(), "admin@sorteo.pe", "secret"); err != nil {
			t.Errorf("Login: %v", err)
			return
		}
		sess.Logout()
	}
	<-done
}
