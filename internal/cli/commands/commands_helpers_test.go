package commands

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"

	"SocialSphere/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (токены/пользователь/база) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// testConfig возвращает конфиг клиента, направленный на ts.
func testConfig(t *testing.T, ts *httptest.Server) *config.Config {
	t.Helper()
	dir := withTempConfig(t)
	return &config.Config{
		APIURL:       ts.URL + "/api",
		SessionStore: config.SessionStoreFile,
		SessionDir:   filepath.Join(dir, "session"),
		ClientDBPath: filepath.Join(dir, "client.db"),
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}
