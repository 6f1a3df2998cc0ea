package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"SocialSphere/internal/cli/crypto"
	"SocialSphere/internal/cli/model"
	"SocialSphere/internal/cli/repo"
)

const (
	appDirName       = "SocialSphere"
	accessTokenFile  = "access_token"
	refreshTokenFile = "refresh_token"
	userFile         = "user.json"
)

// SessionFSStore — файловое хранилище сессии и закешированного пользователя для CLI.
// Токены хранятся зашифрованными (AES-GCM), ключ лежит в том же каталоге.
type SessionFSStore struct {
	dir string
	mu  sync.Mutex
}

var _ repo.Store = (*SessionFSStore)(nil)

// NewSessionFSStore создаёт хранилище в dir. Пустой dir — каталог пользователя
// os.UserConfigDir()/SocialSphere.
func NewSessionFSStore(dir string) *SessionFSStore {
	return &SessionFSStore{dir: dir}
}

// DefaultDir returns the per-user config directory used when no dir is configured.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

func (s *SessionFSStore) configDir() (string, error) {
	dir := s.dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// Get читает сессию. Отсутствующие файлы означают отсутствующие токены.
func (s *SessionFSStore) Get() (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.configDir()
	if err != nil {
		return model.Session{}, err
	}
	access, err := readSealed(dir, accessTokenFile)
	if err != nil {
		return model.Session{}, err
	}
	refresh, err := readSealed(dir, refreshTokenFile)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{AccessToken: access, RefreshToken: refresh}, nil
}

// Set сохраняет оба токена; пустой токен удаляет соответствующий файл.
func (s *SessionFSStore) Set(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.configDir()
	if err != nil {
		return err
	}
	if err := writeSealed(dir, accessTokenFile, sess.AccessToken); err != nil {
		return err
	}
	return writeSealed(dir, refreshTokenFile, sess.RefreshToken)
}

// Clear удаляет токены и пользователя. Ключ шифрования остаётся.
func (s *SessionFSStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.configDir()
	if err != nil {
		return err
	}
	for _, name := range []string{accessTokenFile, refreshTokenFile, userFile} {
		if err := removeIfExists(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// SaveUser сохраняет профиль пользователя в user.json.
func (s *SessionFSStore) SaveUser(u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.configDir()
	if err != nil {
		return err
	}
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, userFile), b, 0o600)
}

// LoadUser читает профиль пользователя; nil, если он не сохранён.
func (s *SessionFSStore) LoadUser() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.configDir()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(dir, userFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return &u, nil
}

func readSealed(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	sealed := strings.TrimSpace(string(b))
	if sealed == "" {
		return "", nil
	}
	key, err := crypto.LoadOrCreateKey(dir)
	if err != nil {
		return "", err
	}
	plain, err := crypto.OpenString(sealed, key)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", name, err)
	}
	return plain, nil
}

func writeSealed(dir, name, value string) error {
	p := filepath.Join(dir, name)
	if value == "" {
		return removeIfExists(p)
	}
	key, err := crypto.LoadOrCreateKey(dir)
	if err != nil {
		return err
	}
	sealed, err := crypto.SealString(value, key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(sealed), 0o600)
}

func removeIfExists(p string) error {
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
