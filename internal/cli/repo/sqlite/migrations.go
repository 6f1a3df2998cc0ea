package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Схема клиентской БД: файлы migrations/NNN_*.sql применяются по порядку,
// номер последней применённой хранится в PRAGMA user_version.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrationFiles() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// applyMigrations применяет ещё не применённые миграции; повторный вызов ничего не делает.
func applyMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	names, err := migrationFiles()
	if err != nil {
		return err
	}
	for i := version; i < len(names); i++ {
		ddl, err := migrationsFS.ReadFile(names[i])
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(ddl)); err != nil {
			return fmt.Errorf("apply %s: %w", names[i], err)
		}
		// PRAGMA не принимает плейсхолдеры
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("bump schema version: %w", err)
		}
	}
	return nil
}
