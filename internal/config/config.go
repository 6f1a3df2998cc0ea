package config

import (
	"flag"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "http://localhost:8000/api"
	DefaultServerAddr = "localhost:8000"

	SessionStoreFile   = "file"
	SessionStoreSQLite = "sqlite"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string        `env:"DATABASE_URI"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	ServerAddr  string        `env:"SERVER_ADDR"`
	AccessTTL   time.Duration `env:"ACCESS_TTL" envDefault:"1h"`
	RefreshTTL  time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
	MediaDir    string        `env:"MEDIA_DIR"`

	// Client-side settings
	APIURL       string        `env:"API_URL"`
	SessionStore string        `env:"SESSION_STORE"`
	SessionDir   string        `env:"SESSION_DIR"`
	ClientDBPath string        `env:"CLIENT_DB_PATH"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	Debug        bool          `env:"DEBUG"`
	Version      bool          `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags перекрывают значения из env
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь к файлу SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.ServerAddr, "addr", cfg.ServerAddr, "listen address of the development server (host:port)")
	flag.StringVar(&cfg.MediaDir, "media-dir", cfg.MediaDir, "directory for uploaded post images")
	// Client flags
	flag.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "base URL of the SocialSphere API, e.g. http://localhost:8000/api")
	flag.StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "where the client keeps its session: file|sqlite")
	flag.StringVar(&cfg.SessionDir, "session-dir", cfg.SessionDir, "directory for the file session store")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to client SQLite DB (sqlite session store)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// applyDefaults заполняет пустые значения и откатывает невалидные к значениям по умолчанию.
func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if !hostPortRe.MatchString(cfg.ServerAddr) {
		cfg.ServerAddr = DefaultServerAddr
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if !validAPIURL(cfg.APIURL) {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.SessionStore != SessionStoreFile && cfg.SessionStore != SessionStoreSQLite {
		cfg.SessionStore = SessionStoreFile
	}

	home, _ := os.UserHomeDir()
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = filepath.Join(home, "socialsphere.db")
	}
	if cfg.MediaDir == "" {
		cfg.MediaDir = "media"
	}
	if cfg.ClientDBPath == "" {
		cfg.ClientDBPath = filepath.Join(home, "socialsphere-client.db")
	}
}

// validAPIURL accepts only absolute http(s) URLs with a host.
func validAPIURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
