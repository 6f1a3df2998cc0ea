package handlers_test

import (
	"SocialSphere/internal/config"
	"SocialSphere/internal/handlers"
	"SocialSphere/internal/middleware"
	"SocialSphere/internal/repo"
	"SocialSphere/internal/service"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// newTestRouter собирает роутер поверх in-memory SQLite; у каждого теста своя база.
func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{AuthSecret: testSecret, MediaDir: t.TempDir(), AccessTTL: time.Minute, RefreshTTL: time.Hour}
	logger := zap.NewNop().Sugar()

	userSvc := service.NewUserService(repo.NewUserRepository(db))
	tokenSvc := service.NewTokenService(repo.NewRefreshTokenRepository(db), cfg.AuthSecret, cfg.AccessTTL, cfg.RefreshTTL, logger)
	postSvc := service.NewPostService(repo.NewPostRepository(db), repo.NewCommentRepository(db), logger)

	h := handlers.NewHandler(userSvc, tokenSvc, postSvc, logger, cfg)
	return h.Router, cfg
}

// do выполняет запрос; body сериализуется в JSON, если это не io.Reader.
func do(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		rd = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

// register создаёт пользователя через API и возвращает ответ с токенами.
func register(t *testing.T, router http.Handler, username string) handlers.AuthResponse {
	t.Helper()
	rr := do(t, router, http.MethodPost, "/api/users/register/", map[string]string{
		"username": username, "email": username + "@example.com",
		"password": "password123", "password_confirm": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[handlers.AuthResponse](t, rr)
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := middleware.NewAccessToken(userID, testSecret, time.Minute, time.Now())
	require.NoError(t, err)
	return tok
}
