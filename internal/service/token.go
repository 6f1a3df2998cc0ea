package service

import (
	"SocialSphere/internal/middleware"
	"SocialSphere/internal/model"
	"SocialSphere/internal/repo"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenPair — access и refresh токены, выдаваемые при входе и обновлении.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenService выпускает JWT access-токены и одноразовые refresh-токены с ротацией.
type TokenService struct {
	repo       repo.RefreshTokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewTokenService(r repo.RefreshTokenRepository, secret string, accessTTL, refreshTTL time.Duration, logger *zap.SugaredLogger) *TokenService {
	return &TokenService{
		repo:       r,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Issue выпускает новую пару токенов для пользователя.
func (s *TokenService) Issue(ctx context.Context, userID int64) (TokenPair, error) {
	now := s.now()
	access, err := middleware.NewAccessToken(userID, s.secret, s.accessTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := randomToken()
	if err != nil {
		return TokenPair{}, err
	}
	err = s.repo.Create(ctx, &model.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(refresh),
		ExpiresAt: now.Add(s.refreshTTL),
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh обменивает refresh-токен на новую пару; старый токен отзывается.
func (s *TokenService) Refresh(ctx context.Context, refresh string) (TokenPair, error) {
	if refresh == "" {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	stored, err := s.repo.GetByHash(ctx, hashToken(refresh))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return TokenPair{}, err
	}
	if stored.Revoked || !s.now().Before(stored.ExpiresAt) {
		s.logger.Infow("refresh token rejected", "user_id", stored.UserID, "revoked", stored.Revoked)
		return TokenPair{}, ErrInvalidRefreshToken
	}
	// параллельное обновление тем же токеном: выигрывает только один запрос
	ok, err := s.repo.Revoke(ctx, stored.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	return s.Issue(ctx, stored.UserID)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(t string) string {
	sum := sha256.Sum256([]byte(t))
	return hex.EncodeToString(sum[:])
}

// RevokeAll отзывает все refresh-токены пользователя (выход на всех устройствах).
func (s *TokenService) RevokeAll(ctx context.Context, userID int64) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Infow("refresh tokens revoked", "user_id", userID)
	return nil
}
