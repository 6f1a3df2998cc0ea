package api

import (
	"context"
	"fmt"
	"net/http"

	"SocialSphere/internal/cli/model"
)

type refreshPayload struct {
	Refresh string `json:"refresh"`
}

type refreshResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// refresh обновляет access-токен сессии stale, прочитанной перед неудачной попыткой.
// Параллельные обновления по одному refresh-токену схлопываются в один запрос.
func (c *Client) refresh(ctx context.Context, stale model.Session) error {
	if !stale.HasRefresh() {
		c.expire("no refresh token stored")
		return ErrAuthExpired
	}

	// обновление не привязано к отмене первого вызвавшего: к нему могли присоединиться другие запросы
	flightCtx := context.WithoutCancel(ctx)
	ch := c.refreshes.DoChan(stale.RefreshToken, func() (any, error) {
		// токен мог уже обновить параллельный запрос
		if cur, err := c.store.Get(); err == nil && cur.HasAccess() && cur.AccessToken != stale.AccessToken {
			c.log.Debugw("access token already refreshed by another request")
			return nil, nil
		}
		return nil, c.refreshOnce(flightCtx, stale.RefreshToken)
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.log.Debugw("joined in-flight token refresh")
		}
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrRefreshUnavailable, ctx.Err())
	}
}

func (c *Client) refreshOnce(ctx context.Context, refreshToken string) error {
	req, err := JSONRequest(http.MethodPost, c.refreshPath, refreshPayload{Refresh: refreshToken})
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, req.AsPublic(), "")
	if err != nil {
		c.log.Warnw("token refresh failed", "err", err)
		return fmt.Errorf("%w: %w", ErrRefreshUnavailable, err)
	}

	switch {
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		apiErr := newAPIError(resp)
		c.log.Infow("refresh token rejected", "status", resp.StatusCode, "msg", apiErr.Message)
		c.expire("refresh token rejected")
		return fmt.Errorf("%w: %w", ErrAuthExpired, apiErr)
	case !resp.OK():
		c.log.Warnw("token refresh unavailable", "status", resp.StatusCode)
		return fmt.Errorf("%w: %w", ErrRefreshUnavailable, newAPIError(resp))
	}

	var out refreshResult
	if err := resp.DecodeJSON(&out); err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshUnavailable, err)
	}
	if out.Access == "" {
		return fmt.Errorf("%w: response has no access token", ErrRefreshUnavailable)
	}

	next := model.Session{RefreshToken: refreshToken}.WithAccess(out.Access, out.Refresh)
	if err := c.store.Set(next); err != nil {
		return fmt.Errorf("store refreshed session: %w", err)
	}
	c.log.Debugw("access token refreshed", "rotated", out.Refresh != "")
	return nil
}

// expire очищает сессию и сообщает о необходимости повторного входа.
func (c *Client) expire(reason string) {
	c.log.Infow("session expired, clearing stored credentials", "reason", reason)
	if err := c.store.Clear(); err != nil {
		c.log.Warnw("clear session", "err", err)
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}
