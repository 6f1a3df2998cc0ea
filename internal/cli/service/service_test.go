package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SocialSphere/internal/cli/api"
	"SocialSphere/internal/cli/model"
	"SocialSphere/internal/cli/repo/memory"
)

func newServices(t *testing.T, h http.HandlerFunc, sess model.Session) (AuthService, PostService, *memory.SessionStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := memory.NewSessionStore(sess)
	c, err := api.New(srv.URL+"/api", store)
	require.NoError(t, err)
	return NewAuthService(c, store), NewPostService(c), store
}

func TestAuthService_LoginStoresSession(t *testing.T) {
	auth, _, store := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"user":{"id":1,"username":"ann"},"access":"a1","refresh":"r1"}`)
	}, model.Session{})

	u, err := auth.Login(context.Background(), "ann", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)

	s, _ := store.Get()
	assert.Equal(t, model.Session{AccessToken: "a1", RefreshToken: "r1"}, s)
	cached, _ := auth.CurrentUser()
	require.NotNil(t, cached)
	assert.Equal(t, int64(1), cached.ID)

	_, err = auth.Login(context.Background(), "ann", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, auth.Logout())
	s, _ = store.Get()
	assert.True(t, s.IsZero())
	cached, _ = auth.CurrentUser()
	assert.Nil(t, cached)
}

func TestAuthService_RegisterValidationError(t *testing.T) {
	auth, _, store := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		var in RegisterInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		assert.Equal(t, in.Password, in.PasswordConfirm)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"username":["A user with that username already exists."]}`)
	}, model.Session{})

	_, err := auth.Register(context.Background(), RegisterInput{Username: "ann", Email: "a@b.c", Password: "pw12345678"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Fields, "username")
	s, _ := store.Get()
	assert.True(t, s.IsZero())
}

func TestAuthService_ProfileUsesBearerAndCachesUser(t *testing.T) {
	auth, _, store := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"id":1,"username":"ann","bio":"old","posts_count":3}`)
		case http.MethodPatch:
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			assert.Equal(t, map[string]string{"bio": "new"}, in)
			_, _ = io.WriteString(w, `{"id":1,"username":"ann","bio":"new"}`)
		}
	}, model.Session{AccessToken: "a1", RefreshToken: "r1"})

	u, err := auth.Profile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u.PostsCount)
	assert.Equal(t, int64(3), *u.PostsCount)

	bio := "new"
	u, err = auth.UpdateProfile(context.Background(), ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "new", u.Bio)
	cached, _ := store.LoadUser()
	assert.Equal(t, "new", cached.Bio)
}

func TestAuthService_UserByUsername(t *testing.T) {
	auth, _, _ := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/bob/" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not found."}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":2,"username":"bob"}`)
	}, model.Session{})

	u, err := auth.UserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.ID)

	_, err = auth.UserByUsername(context.Background(), "nobody")
	assert.True(t, api.IsValidation(err))
}

func TestPostService_ListAndNext(t *testing.T) {
	var base string
	_, posts, _ := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/", r.URL.Path)
		if r.URL.Query().Get("page") == "2" {
			_, _ = io.WriteString(w, `{"count":11,"next":null,"previous":"x","results":[{"id":1}]}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 11, "next": base + "/api/posts/?page=2", "previous": nil,
			"results": []map[string]any{{"id": 11, "content": "latest"}},
		})
	}, model.Session{})
	base = posts.(*postService).api.BaseURL()
	base = base[:len(base)-len("/api/")]

	p, err := posts.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.Count)
	require.True(t, p.HasNext())
	assert.Equal(t, "latest", p.Results[0].Content)

	next, err := posts.ListNext(context.Background(), *p.Next)
	require.NoError(t, err)
	assert.False(t, next.HasNext())
	assert.Equal(t, int64(1), next.Results[0].ID)
}

func TestPostService_CreateMultipart(t *testing.T) {
	_, posts, _ := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("content") == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"content":["This field is required."]}`)
			return
		}
		f, hdr, err := r.FormFile("image")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "cat.png", hdr.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":5,"content":"hello","image":"/media/posts/x.png"}`)
	}, model.Session{AccessToken: "a"})

	p, err := posts.Create(context.Background(), PostInput{
		Content: "hello",
		Image:   &api.FormFile{FileName: "cat.png", Content: []byte("PNG")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	require.NotNil(t, p.Image)

	_, err = posts.Create(context.Background(), PostInput{})
	assert.Error(t, err)
}

func TestPostService_LikeToggle(t *testing.T) {
	liked := false
	_, posts, _ := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/3/like/", r.URL.Path)
		liked = !liked
		if liked {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"message":"Post liked"}`)
			return
		}
		_, _ = io.WriteString(w, `{"message":"Post unliked"}`)
	}, model.Session{AccessToken: "a"})

	got, err := posts.Like(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, got)
	got, err = posts.Like(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestPostService_ForbiddenDelete(t *testing.T) {
	_, posts, _ := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/posts/1/":
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":"You can only delete your own posts"}`)
		case "/api/posts/comments/9/":
			w.WriteHeader(http.StatusNoContent)
		}
	}, model.Session{AccessToken: "a"})

	err := posts.Delete(context.Background(), 1)
	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "You can only delete your own posts", apiErr.Message)

	assert.NoError(t, posts.DeleteComment(context.Background(), 9))
}

func TestPostService_Comments(t *testing.T) {
	_, posts, _ := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/4/comments/", r.URL.Path)
		if r.Method == http.MethodPost {
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 8, "post": 4, "content": in["content"]})
			return
		}
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = io.WriteString(w, `{"count":1,"next":null,"previous":null,"results":[{"id":8,"post":4,"content":"nice"}]}`)
	}, model.Session{AccessToken: "a"})

	page, err := posts.Comments(context.Background(), 4, 2)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "nice", page.Results[0].Content)

	c, err := posts.AddComment(context.Background(), 4, "great")
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.Post)
	assert.Equal(t, "great", c.Content)
}

func TestPostService_UpdateComment(t *testing.T) {
	_, posts, _ := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		switch r.URL.Path {
		case "/api/posts/comments/8/":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 8, "post": 4, "content": in["content"]})
		case "/api/posts/comments/9/":
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":"You can only edit your own comments"}`)
		}
	}, model.Session{AccessToken: "a"})

	c, err := posts.UpdateComment(context.Background(), 8, "fixed")
	require.NoError(t, err)
	assert.Equal(t, int64(8), c.ID)
	assert.Equal(t, "fixed", c.Content)

	_, err = posts.UpdateComment(context.Background(), 9, "hacked")
	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "You can only edit your own comments", apiErr.Message)

	_, err = posts.UpdateComment(context.Background(), 8, "")
	assert.Error(t, err)
}
