package repo

import (
	"SocialSphere/internal/model"
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория.
// У каждого теста своя база.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := InitDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mustUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u, err := NewUserRepository(db).CreateUser(context.Background(), &model.User{Username: username, Password: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestIsPostgresDSN(t *testing.T) {
	cases := map[string]bool{
		"postgres://u:p@localhost:5432/db":        true,
		"postgresql://localhost/db":               true,
		"host=localhost user=u dbname=db":         true,
		"/home/u/socialsphere.db":                 false,
		"file:test?mode=memory&cache=shared":      false,
		"socialsphere.db?_pragma=foreign_keys(1)": false,
	}
	for dsn, want := range cases {
		if got := isPostgresDSN(dsn); got != want {
			t.Fatalf("isPostgresDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("a.db"); got != "a.db?_pragma=foreign_keys(1)" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := sqliteDSN("file:x?mode=memory"); got != "file:x?mode=memory&_pragma=foreign_keys(1)" {
		t.Fatalf("unexpected dsn %q", got)
	}
}
