package model

// Session — пара токенов клиента. Пустая строка означает отсутствие токена.
type Session struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// HasAccess reports whether an access token is stored.
func (s Session) HasAccess() bool { return s.AccessToken != "" }

// HasRefresh reports whether a refresh token is stored.
func (s Session) HasRefresh() bool { return s.RefreshToken != "" }

// IsZero reports whether the session holds no tokens at all.
func (s Session) IsZero() bool { return s.AccessToken == "" && s.RefreshToken == "" }

// WithAccess возвращает копию сессии с новым access-токеном.
// Если rotatedRefresh не пустой, refresh-токен тоже заменяется (ротация на сервере).
func (s Session) WithAccess(access, rotatedRefresh string) Session {
	s.AccessToken = access
	if rotatedRefresh != "" {
		s.RefreshToken = rotatedRefresh
	}
	return s
}
