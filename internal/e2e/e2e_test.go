package e2e_test

import (
	"SocialSphere/internal/cli/api"
	"SocialSphere/internal/cli/model"
	"SocialSphere/internal/cli/repo/memory"
	clisvc "SocialSphere/internal/cli/service"
	"SocialSphere/internal/config"
	"SocialSphere/internal/handlers"
	"SocialSphere/internal/middleware"
	"SocialSphere/internal/repo"
	"SocialSphere/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "e2e-secret"

type env struct {
	srv     *httptest.Server
	store   *memory.SessionStore
	client  *api.Client
	auth    clisvc.AuthService
	posts   clisvc.PostService
	expired atomic.Int32
}

// newEnv поднимает настоящий backend на httptest и подключает к нему клиент.
func newEnv(t *testing.T) *env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	// одно соединение: общий in-memory кеш SQLite не любит параллельных писателей
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{AuthSecret: secret, MediaDir: t.TempDir(), AccessTTL: time.Minute, RefreshTTL: time.Hour}
	logger := zap.NewNop().Sugar()
	h := handlers.NewHandler(
		service.NewUserService(repo.NewUserRepository(db)),
		service.NewTokenService(repo.NewRefreshTokenRepository(db), secret, cfg.AccessTTL, cfg.RefreshTTL, logger),
		service.NewPostService(repo.NewPostRepository(db), repo.NewCommentRepository(db), logger),
		logger, cfg,
	)
	srv := httptest.NewServer(h.Router)
	t.Cleanup(srv.Close)

	e := &env{srv: srv, store: memory.NewSessionStore(model.Session{})}
	e.client, err = api.New(srv.URL+"/api", e.store, api.OnAuthExpired(func() { e.expired.Add(1) }))
	require.NoError(t, err)
	e.auth = clisvc.NewAuthService(e.client, e.store)
	e.posts = clisvc.NewPostService(e.client)
	return e
}

// staleAccess подменяет access-токен на просроченный, refresh остаётся прежним.
func (e *env) staleAccess(t *testing.T, userID int64) {
	t.Helper()
	tok, err := middleware.NewAccessToken(userID, secret, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	sess, err := e.store.Get()
	require.NoError(t, err)
	require.NoError(t, e.store.Set(sess.WithAccess(tok, "")))
}

func TestE2E_SessionLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Register(ctx, clisvc.RegisterInput{Username: "neo", Email: "neo@example.com", Password: "followthewhiterabbit"})
	require.NoError(t, err)
	assert.Equal(t, "neo", user.Username)

	sess, _ := e.store.Get()
	require.True(t, sess.HasAccess())
	require.True(t, sess.HasRefresh())

	post, err := e.posts.Create(ctx, clisvc.PostInput{Content: "hello matrix"})
	require.NoError(t, err)

	liked, err := e.posts.Like(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	_, err = e.posts.AddComment(ctx, post.ID, "first!")
	require.NoError(t, err)

	got, err := e.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.Equal(t, int64(1), got.CommentsCount)
	assert.True(t, got.IsLiked)

	// просроченный access-токен обновляется прозрачно, refresh ротируется
	e.staleAccess(t, user.ID)
	before, _ := e.store.Get()
	profile, err := e.auth.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "neo", profile.Username)
	after, _ := e.store.Get()
	assert.NotEqual(t, before.AccessToken, after.AccessToken)
	assert.NotEqual(t, before.RefreshToken, after.RefreshToken)
	assert.Zero(t, e.expired.Load())

	require.NoError(t, e.auth.Logout())
	sess, _ = e.store.Get()
	assert.True(t, sess.IsZero())

	// после выхода лента читается анонимно
	page, err := e.posts.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	assert.False(t, page.Results[0].IsLiked)
}

func TestE2E_ConcurrentRefreshSingleFlight(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Register(ctx, clisvc.RegisterInput{Username: "trinity", Password: "password123"})
	require.NoError(t, err)
	e.staleAccess(t, user.ID)

	// refresh-токен одноразовый: без дедупликации часть запросов получила бы 401
	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.auth.Profile(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Zero(t, e.expired.Load())
}

func TestE2E_RevokedRefreshClearsSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Login(ctx, "nobody", "password123")
	require.Error(t, err)
	assert.ErrorIs(t, err, clisvc.ErrInvalidCredentials)
	assert.Zero(t, e.expired.Load(), "login failure must not trigger refresh")

	user, err = e.auth.Register(ctx, clisvc.RegisterInput{Username: "morpheus", Password: "password123"})
	require.NoError(t, err)

	// отзываем все refresh-токены на сервере
	sess, _ := e.store.Get()
	req, _ := http.NewRequest(http.MethodPost, e.srv.URL+"/api/users/logout/", nil)
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	e.staleAccess(t, user.ID)
	_, err = e.auth.Profile(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrAuthExpired)

	sess, _ = e.store.Get()
	assert.True(t, sess.IsZero(), "session must be cleared")
	cached, _ := e.store.LoadUser()
	assert.Nil(t, cached)
	assert.Equal(t, int32(1), e.expired.Load())
}

func TestE2E_RotatedRefreshIsOneUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Register(ctx, clisvc.RegisterInput{Username: "tank", Password: "password123"})
	require.NoError(t, err)
	sess, _ := e.store.Get()

	refresh := func(token string) int {
		body, _ := json.Marshal(map[string]string{"refresh": token})
		resp, err := http.Post(e.srv.URL+"/api/users/token/refresh/", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusOK, refresh(sess.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, refresh(sess.RefreshToken))
}
