package session

import (
	"testing"

	"github.com/rs/zerolog"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestService() *Service {
	return NewService(NewMemStore(), testKey, zerolog.Nop())
}

func TestLogin_Succeeds(t *testing.T) {
	svc := newTestService()

	if !svc.Login("e.reed@stanford.edu", "password123") {
		t.Fatal("expected login to succeed")
	}
	if !svc.IsAuthenticated() {
		t.Fatal("expected authenticated state")
	}

	sess := svc.Current()
	if sess == nil {
		t.Fatal("expected session")
	}
	if sess.Email != "e.reed@stanford.edu" {
		t.Errorf("expected session email to equal input, got %s", sess.Email)
	}
	if sess.Role != "Radiologist" {
		t.Errorf("unexpected role %s", sess.Role)
	}
	if sess.Token == "" {
		t.Error("expected a token")
	}
	if _, err := svc.ParseToken(sess.Token); err != nil {
		t.Errorf("minted token must validate: %v", err)
	}
}

func TestLogin_RejectsShortPassword(t *testing.T) {
	svc := newTestService()

	if svc.Login("e.reed@stanford.edu", "short") {
		t.Fatal("expected login to fail for password under 8 chars")
	}
	if svc.IsAuthenticated() {
		t.Error("failed login must leave state unchanged")
	}
	if _, err := NewMemStore().Load(); err == nil {
		t.Error("expected empty store")
	}
}

func TestLogin_RejectsEmptyEmail(t *testing.T) {
	svc := newTestService()

	if svc.Login("", "longenough") {
		t.Fatal("expected login to fail for empty email")
	}
	if svc.Current() != nil {
		t.Error("expected no session")
	}
}

func TestLogin_ExactBoundary(t *testing.T) {
	svc := newTestService()

	if !svc.Login("a@b.c", "12345678") {
		t.Error("expected 8-char password to be accepted")
	}
	svc = newTestService()
	if svc.Login("a@b.c", "1234567") {
		t.Error("expected 7-char password to be rejected")
	}
}

func TestLogout_ClearsSessionAndSlot(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store, testKey, zerolog.Nop())

	svc.Login("a@b.c", "password123")
	svc.Logout()

	if svc.IsAuthenticated() {
		t.Error("expected unauthenticated state after logout")
	}
	if _, err := store.Load(); err != ErrNoSession {
		t.Errorf("expected persisted slot removed, got %v", err)
	}

	// Logout with no session is still a no-op success.
	svc.Logout()
}

func TestRestore_FromPersistedSlot(t *testing.T) {
	store := NewMemStore()
	first := NewService(store, testKey, zerolog.Nop())
	first.Login("a@b.c", "password123")

	second := NewService(store, testKey, zerolog.Nop())
	second.Restore()

	if !second.IsAuthenticated() {
		t.Fatal("expected restored session")
	}
	if second.Current().Email != "a@b.c" {
		t.Errorf("unexpected restored email %s", second.Current().Email)
	}
}

func TestRestore_RejectsForeignToken(t *testing.T) {
	store := NewMemStore()
	first := NewService(store, []byte("another-key-entirely-32-bytes!!!"), zerolog.Nop())
	first.Login("a@b.c", "password123")

	second := NewService(store, testKey, zerolog.Nop())
	second.Restore()

	if second.IsAuthenticated() {
		t.Error("session signed with a different key must not restore")
	}
}

func TestRestore_EmptySlot(t *testing.T) {
	svc := newTestService()
	svc.Restore()
	if svc.IsAuthenticated() {
		t.Error("expected unauthenticated state with empty slot")
	}
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ParseToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
