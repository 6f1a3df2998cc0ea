package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"SocialSphere/internal/cli/repo"
)

const (
	// DefaultRefreshPath — эндпоинт обновления access-токена относительно базового URL.
	DefaultRefreshPath = "users/token/refresh/"
	defaultTimeout     = 30 * time.Second
	maxBodySize        = 10 << 20
)

// Client выполняет запросы к API, подставляя bearer-токен из хранилища сессии
// и один раз повторяя запрос после прозрачного обновления токена.
type Client struct {
	base        *url.URL
	http        *http.Client
	store       repo.SessionStore
	log         *zap.SugaredLogger
	refreshPath string
	onExpired   func()

	refreshes singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithRefreshPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.refreshPath = p
		}
	}
}

// OnAuthExpired регистрирует обработчик, вызываемый после принудительного выхода
// (сессия очищена, нужен повторный вход).
func OnAuthExpired(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, store repo.SessionStore, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute http(s) url, got %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery, u.Fragment = "", ""

	c := &Client{
		base:        u,
		http:        &http.Client{Timeout: defaultTimeout},
		store:       store,
		log:         zap.NewNop().Sugar(),
		refreshPath: DefaultRefreshPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root (always ends with "/").
func (c *Client) BaseURL() string { return c.base.String() }

// Do отправляет запрос. Любой статус, кроме 401 на защищённом запросе, возвращается
// вызывающему как есть; ошибка означает сбой сети или истёкшую аутентификацию.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return c.do(ctx, req, 0)
}

// DoJSON выполняет запрос, превращает не-2xx ответ в *APIError и декодирует тело в out.
// out может быть nil, если тело не нужно.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) (*Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := CheckResponse(resp); err != nil {
		return resp, err
	}
	if out != nil && len(resp.Body) > 0 {
		if err := resp.DecodeJSON(out); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req Request, attempt int) (*Response, error) {
	sess, err := c.store.Get()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	// токен уходит только на хост API; чужие ссылки (next/previous) запрашиваются анонимно
	authed := !req.Public && c.sameOrigin(req.Path)
	token := ""
	if authed {
		token = sess.AccessToken
	}

	resp, err := c.send(ctx, req, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !authed {
		return resp, nil
	}

	if attempt > 0 {
		c.log.Warnw("request unauthorized after token refresh", "method", req.Method, "path", req.Path)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ErrAuthExpired)
	}

	c.log.Debugw("access token rejected, refreshing", "method", req.Method, "path", req.Path)
	if err := c.refresh(ctx, sess); err != nil {
		return nil, err
	}
	return c.do(ctx, req, attempt+1)
}

// send выполняет одну попытку и полностью вычитывает тело ответа.
func (c *Client) send(ctx context.Context, req Request, accessToken string) (*Response, error) {
	hreq, err := req.httpRequest(ctx, c.base, accessToken)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", req.Method, req.Path, err)
	}
	res, err := c.http.Do(hreq)
	if err != nil {
		return nil, &NetworkError{Method: hreq.Method, URL: hreq.URL.String(), Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Method: hreq.Method, URL: hreq.URL.String(), Err: err}
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
}

// sameOrigin сообщает, указывает ли path на тот же scheme://host, что и базовый URL.
func (c *Client) sameOrigin(path string) bool {
	target, err := resolve(c.base, path)
	if err != nil {
		return false
	}
	return strings.EqualFold(target.Scheme, c.base.Scheme) && strings.EqualFold(target.Host, c.base.Host)
}

// resolve склеивает путь с базовым URL; абсолютные URL (ссылки next/previous) используются как есть.
func resolve(base *url.URL, path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	if ref.IsAbs() {
		return ref, nil
	}
	ref, err = url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	return base.ResolveReference(ref), nil
}
