package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"microblog/internal/store"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, ttl)
}

func TestSignupLogin(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.Signup("a@b.com", "alice", "secret"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sid, expires, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sid == "" || !expires.After(time.Now()) {
		t.Fatalf("bad session: %q %v", sid, expires)
	}
	user, err := svc.UserBySession(sid)
	if err != nil || user.Username != "alice" {
		t.Fatalf("resolve session: %v %+v", err, user)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.Signup("a@b.com", "alice", "secret"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := svc.Login("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, _, err := svc.Login("nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v", err)
	}
}

func TestSignupMissingFields(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.Signup("", "alice", "secret"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.Signup("a@b.com", "alice", "secret"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sid, _, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(sid); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.UserBySession(sid); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("revoked session resolved: %v", err)
	}
}

func TestExpiredSession(t *testing.T) {
	svc := newTestService(t, -time.Minute)
	if _, err := svc.Signup("a@b.com", "alice", "secret"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sid, _, err := svc.Login("alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.UserBySession(sid); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expired session resolved: %v", err)
	}
}
