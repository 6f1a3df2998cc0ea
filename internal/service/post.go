package service

import (
	"SocialSphere/internal/model"
	"SocialSphere/internal/repo"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// PageSize — размер страницы списков.
const PageSize = 10

// ограничения длины текста в символах
const (
	MaxPostLength    = 1000
	MaxCommentLength = 500
)

// validateContent проверяет, что текст не пустой и не длиннее max символов.
func validateContent(content string, max int) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Fields: map[string][]string{"content": {"This field may not be blank."}}}
	}
	if utf8.RuneCountInString(content) > max {
		msg := fmt.Sprintf("Ensure this field has no more than %d characters.", max)
		return &ValidationError{Fields: map[string][]string{"content": {msg}}}
	}
	return nil
}

// PostView — пост с вычисляемыми полями для конкретного читателя.
type PostView struct {
	model.Post
	LikesCount    int64
	CommentsCount int64
	IsLiked       bool
	Comments      []model.Comment
}

// PostPage — страница ленты.
type PostPage struct {
	Items []PostView
	Total int64
}

type CommentPage struct {
	Items []model.Comment
	Total int64
}

// PostService — лента, посты, лайки и комментарии. Редактировать и удалять может только автор.
type PostService struct {
	posts    repo.PostRepository
	comments repo.CommentRepository
	logger   *zap.SugaredLogger
}

func NewPostService(posts repo.PostRepository, comments repo.CommentRepository, logger *zap.SugaredLogger) *PostService {
	return &PostService{posts: posts, comments: comments, logger: logger}
}

func offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// List возвращает страницу ленты (page начинается с 1). viewerID 0 — анонимный читатель.
func (s *PostService) List(ctx context.Context, viewerID int64, page int) (*PostPage, error) {
	posts, total, err := s.posts.List(ctx, offset(page), PageSize)
	if err != nil {
		return nil, err
	}
	if page > 1 && len(posts) == 0 {
		return nil, ErrNotFound
	}
	views, err := s.withStats(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Items: views, Total: total}, nil
}

// Get возвращает пост вместе с первой страницей комментариев.
func (s *PostService) Get(ctx context.Context, viewerID, id int64) (*PostView, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	views, err := s.withStats(ctx, []model.Post{*p}, viewerID)
	if err != nil {
		return nil, err
	}
	v := views[0]
	comments, _, err := s.comments.ListByPost(ctx, id, 0, PageSize)
	if err != nil {
		return nil, err
	}
	v.Comments = comments
	return &v, nil
}

func (s *PostService) Create(ctx context.Context, userID int64, content, image string) (*PostView, error) {
	if err := validateContent(content, MaxPostLength); err != nil {
		return nil, err
	}
	p, err := s.posts.Create(ctx, &model.Post{UserID: userID, Content: content, Image: image})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("post created", "post_id", p.ID, "user_id", userID)
	return &PostView{Post: *p}, nil
}

// Update меняет текст и/или картинку поста автора.
func (s *PostService) Update(ctx context.Context, userID, id int64, content, image *string) (*PostView, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if p.UserID != userID {
		return nil, ErrForbidden
	}
	updates := map[string]any{}
	if content != nil {
		if err := validateContent(*content, MaxPostLength); err != nil {
			return nil, err
		}
		updates["content"] = *content
	}
	if image != nil {
		updates["image"] = *image
	}
	p, err = s.posts.Update(ctx, id, updates)
	if err != nil {
		return nil, notFound(err)
	}
	views, err := s.withStats(ctx, []model.Post{*p}, userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PostService) Delete(ctx context.Context, userID, id int64) error {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	return notFound(s.posts.Delete(ctx, id))
}

// ToggleLike возвращает true, если лайк поставлен, false — если снят.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return false, notFound(err)
	}
	return s.posts.ToggleLike(ctx, userID, postID)
}

func (s *PostService) Comments(ctx context.Context, postID int64, page int) (*CommentPage, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, notFound(err)
	}
	list, total, err := s.comments.ListByPost(ctx, postID, offset(page), PageSize)
	if err != nil {
		return nil, err
	}
	if page > 1 && len(list) == 0 {
		return nil, ErrNotFound
	}
	return &CommentPage{Items: list, Total: total}, nil
}

func (s *PostService) AddComment(ctx context.Context, userID, postID int64, content string) (*model.Comment, error) {
	if err := validateContent(content, MaxCommentLength); err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, notFound(err)
	}
	return s.comments.Create(ctx, &model.Comment{PostID: postID, UserID: userID, Content: content})
}

// UpdateComment меняет текст комментария; редактировать может только автор.
func (s *PostService) UpdateComment(ctx context.Context, userID, id int64, content string) (*model.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	if err := validateContent(content, MaxCommentLength); err != nil {
		return nil, err
	}
	c, err = s.comments.Update(ctx, id, content)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *PostService) DeleteComment(ctx context.Context, userID, id int64) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if c.UserID != userID {
		return ErrForbidden
	}
	return notFound(s.comments.Delete(ctx, id))
}

func (s *PostService) withStats(ctx context.Context, posts []model.Post, viewerID int64) ([]PostView, error) {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	stats, err := s.posts.Stats(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}
	views := make([]PostView, len(posts))
	for i, p := range posts {
		st := stats[p.ID]
		views[i] = PostView{Post: p, LikesCount: st.Likes, CommentsCount: st.Comments, IsLiked: st.Liked}
	}
	return views, nil
}
