package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"SocialSphere/internal/cli/crypto"
	"SocialSphere/internal/cli/model"
	"SocialSphere/internal/cli/repo"

	_ "modernc.org/sqlite"
)

const (
	keyAccess  = "access_token"
	keyRefresh = "refresh_token"
	keyUser    = "user"
)

// SessionStoreSQLite — хранилище сессии клиента в локальной БД SQLite (таблица key/value).
// Токены хранятся зашифрованными (AES-GCM), ключ лежит рядом с файлом БД.
type SessionStoreSQLite struct {
	db  *sql.DB
	key []byte
	mu  sync.Mutex
}

var _ repo.Store = (*SessionStoreSQLite)(nil)

// Open открывает (и создаёт при необходимости) файл БД по пути path и выполняет миграции.
func Open(path string) (*SessionStoreSQLite, error) {
	if path == "" {
		return nil, errors.New("empty path for client db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	key, err := crypto.LoadOrCreateKey(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SessionStoreSQLite{db: db, key: key}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate client db: %w", err)
	}
	return s, nil
}

// Close закрывает соединение с БД.
func (s *SessionStoreSQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц.
func (s *SessionStoreSQLite) Migrate() error {
	return applyMigrations(s.db)
}

func (s *SessionStoreSQLite) Get() (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, err := s.getSealed(keyAccess)
	if err != nil {
		return model.Session{}, err
	}
	refresh, err := s.getSealed(keyRefresh)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{AccessToken: access, RefreshToken: refresh}, nil
}

// Set записывает оба токена одной транзакцией.
func (s *SessionStoreSQLite) Set(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		// в случае некоммита — откат
		_ = tx.Rollback()
	}()
	if err := s.putSealed(tx, keyAccess, sess.AccessToken); err != nil {
		return err
	}
	if err := s.putSealed(tx, keyRefresh, sess.RefreshToken); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SessionStoreSQLite) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM session WHERE key IN (?, ?, ?)`, keyAccess, keyRefresh, keyUser)
	return err
}

func (s *SessionStoreSQLite) SaveUser(u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return put(s.db, keyUser, string(b))
}

func (s *SessionStoreSQLite) LoadUser() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.get(keyUser)
	if err != nil || raw == "" {
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return &u, nil
}

func (s *SessionStoreSQLite) get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (s *SessionStoreSQLite) getSealed(key string) (string, error) {
	sealed, err := s.get(key)
	if err != nil || sealed == "" {
		return "", err
	}
	plain, err := crypto.OpenString(sealed, s.key)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", key, err)
	}
	return plain, nil
}

func (s *SessionStoreSQLite) putSealed(db execer, key, value string) error {
	if value == "" {
		return put(db, key, "")
	}
	sealed, err := crypto.SealString(value, s.key)
	if err != nil {
		return err
	}
	return put(db, key, sealed)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// put вставляет или обновляет значение; пустое значение удаляет ключ.
func put(db execer, key, value string) error {
	if value == "" {
		_, err := db.Exec(`DELETE FROM session WHERE key = ?`, key)
		return err
	}
	_, err := db.Exec(`INSERT INTO session(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	return err
}
