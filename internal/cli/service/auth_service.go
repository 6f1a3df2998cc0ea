package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"SocialSphere/internal/cli/api"
	"SocialSphere/internal/cli/model"
	"SocialSphere/internal/cli/repo"
)

var (
	// ErrInvalidCredentials — сервер отклонил пару логин/пароль.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNoTokens — ответ на вход/регистрацию не содержит пары токенов.
	ErrNoTokens = errors.New("server did not return tokens")
)

// AuthService описывает юзкейс-уровень аутентификации и профиля для CLI.
type AuthService interface {
	// Register создаёт аккаунт и сразу сохраняет сессию.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login выполняет вход и сохраняет сессию и пользователя.
	Login(ctx context.Context, username, password string) (*model.User, error)
	// Logout очищает локальную сессию.
	Logout() error
	// CurrentUser возвращает закешированного пользователя без обращения к сети (nil, если входа не было).
	CurrentUser() (*model.User, error)
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, in ProfileUpdate) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// ProfileUpdate — частичное обновление профиля; nil-поля не отправляются.
type ProfileUpdate struct {
	Email  *string
	Bio    *string
	Avatar *api.FormFile
}

type authResponse struct {
	User    model.User `json:"user"`
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
}

type authService struct {
	api   *api.Client
	store repo.Store
}

// NewAuthService конструктор сервиса аутентификации.
func NewAuthService(c *api.Client, store repo.Store) AuthService {
	return &authService{api: c, store: store}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.PasswordConfirm == "" {
		in.PasswordConfirm = in.Password
	}
	req, err := api.JSONRequest(http.MethodPost, "users/register/", in)
	if err != nil {
		return nil, err
	}
	return s.authenticate(ctx, req.AsPublic())
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	req, err := api.JSONRequest(http.MethodPost, "users/login/", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	u, err := s.authenticate(ctx, req.AsPublic())
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	return u, err
}

func (s *authService) authenticate(ctx context.Context, req api.Request) (*model.User, error) {
	var out authResponse
	if _, err := s.api.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, ErrNoTokens
	}
	if err := s.store.Set(model.Session{AccessToken: out.Access, RefreshToken: out.Refresh}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if err := s.store.SaveUser(out.User); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return &out.User, nil
}

func (s *authService) Logout() error {
	return s.store.Clear()
}

func (s *authService) CurrentUser() (*model.User, error) {
	return s.store.LoadUser()
}

func (s *authService) Profile(ctx context.Context) (*model.User, error) {
	var u model.User
	if _, err := s.api.DoJSON(ctx, api.NewRequest(http.MethodGet, "users/profile/"), &u); err != nil {
		return nil, err
	}
	if err := s.store.SaveUser(u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return &u, nil
}

func (s *authService) UpdateProfile(ctx context.Context, in ProfileUpdate) (*model.User, error) {
	var (
		req api.Request
		err error
	)
	if in.Avatar != nil {
		fields := map[string]string{}
		if in.Email != nil {
			fields["email"] = *in.Email
		}
		if in.Bio != nil {
			fields["bio"] = *in.Bio
		}
		avatar := *in.Avatar
		avatar.Field = "avatar"
		req, err = api.MultipartRequest(http.MethodPatch, "users/profile/", fields, []api.FormFile{avatar})
	} else {
		body := map[string]string{}
		if in.Email != nil {
			body["email"] = *in.Email
		}
		if in.Bio != nil {
			body["bio"] = *in.Bio
		}
		req, err = api.JSONRequest(http.MethodPatch, "users/profile/", body)
	}
	if err != nil {
		return nil, err
	}

	var u model.User
	if _, err := s.api.DoJSON(ctx, req, &u); err != nil {
		return nil, err
	}
	if err := s.store.SaveUser(u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return &u, nil
}

func (s *authService) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	var u model.User
	path := "users/" + url.PathEscape(username) + "/"
	if _, err := s.api.DoJSON(ctx, api.NewRequest(http.MethodGet, path), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
