package service

import (
	"SocialSphere/internal/model"
	"SocialSphere/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, id int64, updates map[string]any) (*model.User, error) {
	args := m.Called(ctx, id, updates)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) CountPosts(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.RefreshTokenRepository
type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Create(ctx context.Context, t *model.RefreshToken) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTokenRepo) GetByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, hash)
	if t, ok := args.Get(0).(*model.RefreshToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenRepo) Revoke(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

var _ repo.RefreshTokenRepository = (*mockTokenRepo)(nil)

// мок для repo.PostRepository
type mockPostRepo struct{ mock.Mock }

func (m *mockPostRepo) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	args := m.Called(ctx, p)
	if v, ok := args.Get(0).(*model.Post); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Post); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepo) List(ctx context.Context, offset, limit int) ([]model.Post, int64, error) {
	args := m.Called(ctx, offset, limit)
	v, _ := args.Get(0).([]model.Post)
	return v, args.Get(1).(int64), args.Error(2)
}

func (m *mockPostRepo) Update(ctx context.Context, id int64, updates map[string]any) (*model.Post, error) {
	args := m.Called(ctx, id, updates)
	if v, ok := args.Get(0).(*model.Post); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPostRepo) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostRepo) Stats(ctx context.Context, postIDs []int64, viewerID int64) (map[int64]repo.PostStats, error) {
	args := m.Called(ctx, postIDs, viewerID)
	v, _ := args.Get(0).(map[int64]repo.PostStats)
	return v, args.Error(1)
}

var _ repo.PostRepository = (*mockPostRepo)(nil)

// мок для repo.CommentRepository
type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	args := m.Called(ctx, c)
	if v, ok := args.Get(0).(*model.Comment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Comment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID int64, offset, limit int) ([]model.Comment, int64, error) {
	args := m.Called(ctx, postID, offset, limit)
	v, _ := args.Get(0).([]model.Comment)
	return v, args.Get(1).(int64), args.Error(2)
}

func (m *mockCommentRepo) Update(ctx context.Context, id int64, content string) (*model.Comment, error) {
	args := m.Called(ctx, id, content)
	if v, ok := args.Get(0).(*model.Comment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.CommentRepository = (*mockCommentRepo)(nil)
