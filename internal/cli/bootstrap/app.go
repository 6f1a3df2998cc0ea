package bootstrap

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"SocialSphere/internal/cli/api"
	"SocialSphere/internal/cli/repo"
	fsrepo "SocialSphere/internal/cli/repo/fs"
	reposqlite "SocialSphere/internal/cli/repo/sqlite"
	"SocialSphere/internal/cli/service"
	"SocialSphere/internal/config"
)

// App — собранные зависимости клиента для одной команды.
type App struct {
	Store repo.Store
	API   *api.Client
	Auth  service.AuthService
	Posts service.PostService
	Log   *zap.SugaredLogger
}

// NewLogger возвращает no-op логгер, либо development-логгер при debug.
func NewLogger(debug bool) *zap.SugaredLogger {
	if !debug {
		return zap.NewNop().Sugar()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// OpenStore открывает хранилище сессии, выбранное в конфиге, и возвращает (store, cleanup, error).
func OpenStore(cfg *config.Config) (repo.Store, func() error, error) {
	switch cfg.SessionStore {
	case config.SessionStoreSQLite:
		s, err := reposqlite.Open(cfg.ClientDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open client db: %w", err)
		}
		return s, s.Close, nil
	default:
		return fsrepo.NewSessionFSStore(cfg.SessionDir), func() error { return nil }, nil
	}
}

// Open собирает App: хранилище, API-клиент и сервисы. cleanup нужно вызвать по окончании работы.
// onExpired вызывается, когда сессия принудительно сброшена (может быть nil).
func Open(cfg *config.Config, onExpired func()) (*App, func() error, error) {
	log := NewLogger(cfg.Debug)
	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := api.New(cfg.APIURL, store,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithLogger(log),
		api.OnAuthExpired(func() {
			log.Infow("session cleared, login required")
			if onExpired != nil {
				onExpired()
			}
		}),
	)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	app := &App{
		Store: store,
		API:   client,
		Auth:  service.NewAuthService(client, store),
		Posts: service.NewPostService(client),
		Log:   log,
	}
	cleanup := func() error {
		_ = log.Sync()
		return closeStore()
	}
	return app, cleanup, nil
}
