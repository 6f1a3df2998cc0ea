package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"SocialSphere/internal/cli/api"
	"SocialSphere/internal/cli/bootstrap"
	"SocialSphere/internal/config"
)

// withApp открывает зависимости клиента на время выполнения fn.
func withApp(cfg *config.Config, fn func(app *bootstrap.App) error) error {
	app, done, err := bootstrap.Open(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()
	return fn(app)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUsage
	}
	return id, nil
}

// readFormFile читает файл с диска для multipart-загрузки.
func readFormFile(path string) (*api.FormFile, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return nil, errors.New("file is empty: " + path)
	}
	return &api.FormFile{FileName: filepath.Base(path), Content: b}, nil
}
