package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SocialSphere/internal/cli/model"
)

func openTemp(t *testing.T) (*SessionStoreSQLite, string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "nested", "client.sqlite")
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, p
}

func TestOpen_CreatesFileAndMigrates(t *testing.T) {
	s, p := openTemp(t)
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	// повторная миграция идемпотентна
	if err := s.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	files, _ := migrationFiles()
	if version != len(files) || version == 0 {
		t.Fatalf("schema version = %d, want %d", version, len(files))
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestSessionStoreSQLite_SetGetClear(t *testing.T) {
	s, p := openTemp(t)

	sess, err := s.Get()
	if err != nil || !sess.IsZero() {
		t.Fatalf("expected empty session, got %+v err=%v", sess, err)
	}

	if err := s.Set(model.Session{AccessToken: "a1", RefreshToken: "r1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// замена access, refresh остаётся
	if err := s.Set(model.Session{AccessToken: "a2", RefreshToken: "r1"}); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if err := s.SaveUser(model.User{ID: 3, Username: "kate"}); err != nil {
		t.Fatalf("save user: %v", err)
	}

	// данные переживают повторное открытие БД
	_ = s.Close()
	s2, err := Open(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	sess, err = s2.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.AccessToken != "a2" || sess.RefreshToken != "r1" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	u, err := s2.LoadUser()
	if err != nil || u == nil || u.Username != "kate" {
		t.Fatalf("unexpected user: %+v err=%v", u, err)
	}

	if err := s2.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	sess, _ = s2.Get()
	if !sess.IsZero() {
		t.Fatalf("session must be empty after clear: %+v", sess)
	}
	if u, _ := s2.LoadUser(); u != nil {
		t.Fatalf("user must be removed after clear")
	}
}

func TestSessionStoreSQLite_EmptyTokenDeletesKey(t *testing.T) {
	s, _ := openTemp(t)
	_ = s.Set(model.Session{AccessToken: "a", RefreshToken: "r"})
	if err := s.Set(model.Session{RefreshToken: "r"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM session WHERE key = ?`, keyAccess).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("access key must be deleted, count=%d", n)
	}
}

func TestSessionStoreSQLite_TokensEncryptedAtRest(t *testing.T) {
	s, p := openTemp(t)
	if err := s.Set(model.Session{AccessToken: "plain-access", RefreshToken: "plain-refresh"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	for key, plain := range map[string]string{keyAccess: "plain-access", keyRefresh: "plain-refresh"} {
		var raw string
		if err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&raw); err != nil {
			t.Fatalf("raw %s: %v", key, err)
		}
		if raw == "" || strings.Contains(raw, plain) {
			t.Fatalf("%s stored in plaintext: %q", key, raw)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(p), "session.key")); err != nil {
		t.Fatalf("key file expected next to db: %v", err)
	}

	// значение, записанное не этим ключом, не расшифровывается
	if _, err := s.db.Exec(`UPDATE session SET value = ? WHERE key = ?`, "not-sealed", keyAccess); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(); err == nil {
		t.Fatalf("expected decrypt error for tampered value")
	}
}

func TestClose_NilSafe(t *testing.T) {
	var s *SessionStoreSQLite
	if err := s.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
