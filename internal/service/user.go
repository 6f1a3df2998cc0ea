package service

import (
	"SocialSphere/internal/model"
	"SocialSphere/internal/repo"
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

var usernameRe = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

// UserService — регистрация, вход и профиль.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// ProfileUpdate — частичное обновление; nil-поля не меняются.
type ProfileUpdate struct {
	Email  *string
	Bio    *string
	Avatar *string
}

// Register валидирует данные и создаёт пользователя с bcrypt-хешем пароля.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	var verr ValidationError
	if !usernameRe.MatchString(in.Username) {
		verr.add("username", "Enter a valid username.")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			verr.add("email", "Enter a valid email address.")
		}
	}
	if len(in.Password) < minPasswordLen {
		verr.add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if in.PasswordConfirm != "" && in.PasswordConfirm != in.Password {
		verr.add("password", "Password fields didn't match.")
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	})
}

// Login проверяет пару логин/пароль.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && u == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Profile возвращает пользователя и количество его постов.
func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, int64, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, 0, notFound(err)
	}
	n, err := s.repo.CountPosts(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return u, n, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*model.User, error) {
	updates := map[string]any{}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, &ValidationError{Fields: map[string][]string{"email": {"Enter a valid email address."}}}
			}
		}
		updates["email"] = email
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		updates["avatar"] = *in.Avatar
	}
	u, err := s.repo.UpdateUser(ctx, userID, updates)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// notFound переводит gorm.ErrRecordNotFound в ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
