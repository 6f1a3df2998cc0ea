package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"SocialSphere/internal/cli/api"
	"SocialSphere/internal/cli/model"
)

// PostService — лента, посты, лайки и комментарии.
type PostService interface {
	List(ctx context.Context, page int) (*model.Page[model.Post], error)
	// ListNext загружает страницу по ссылке next/previous из предыдущего ответа.
	ListNext(ctx context.Context, pageURL string) (*model.Page[model.Post], error)
	Get(ctx context.Context, id int64) (*model.Post, error)
	Create(ctx context.Context, in PostInput) (*model.Post, error)
	Update(ctx context.Context, id int64, content string) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
	// Like переключает лайк: true — поставлен, false — снят.
	Like(ctx context.Context, id int64) (bool, error)
	Comments(ctx context.Context, postID int64, page int) (*model.Page[model.Comment], error)
	AddComment(ctx context.Context, postID int64, content string) (*model.Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// PostInput — данные нового поста; Image необязателен.
type PostInput struct {
	Content string
	Image   *api.FormFile
}

type postService struct {
	api *api.Client
}

func NewPostService(c *api.Client) PostService {
	return &postService{api: c}
}

func postPath(id int64) string {
	return "posts/" + strconv.FormatInt(id, 10) + "/"
}

func withPage(req api.Request, page int) api.Request {
	if page > 0 {
		return req.WithQuery("page", strconv.Itoa(page))
	}
	return req
}

func (s *postService) List(ctx context.Context, page int) (*model.Page[model.Post], error) {
	var p model.Page[model.Post]
	req := withPage(api.NewRequest(http.MethodGet, "posts/"), page)
	if _, err := s.api.DoJSON(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postService) ListNext(ctx context.Context, pageURL string) (*model.Page[model.Post], error) {
	if pageURL == "" {
		return nil, errors.New("empty page url")
	}
	var p model.Page[model.Post]
	if _, err := s.api.DoJSON(ctx, api.NewRequest(http.MethodGet, pageURL), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	if _, err := s.api.DoJSON(ctx, api.NewRequest(http.MethodGet, postPath(id)), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postService) Create(ctx context.Context, in PostInput) (*model.Post, error) {
	if in.Content == "" {
		return nil, errors.New("content is required")
	}
	var files []api.FormFile
	if in.Image != nil {
		img := *in.Image
		img.Field = "image"
		files = append(files, img)
	}
	req, err := api.MultipartRequest(http.MethodPost, "posts/", map[string]string{"content": in.Content}, files)
	if err != nil {
		return nil, err
	}
	var p model.Post
	if _, err := s.api.DoJSON(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postService) Update(ctx context.Context, id int64, content string) (*model.Post, error) {
	req, err := api.JSONRequest(http.MethodPatch, postPath(id), map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	var p model.Post
	if _, err := s.api.DoJSON(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postService) Delete(ctx context.Context, id int64) error {
	_, err := s.api.DoJSON(ctx, api.NewRequest(http.MethodDelete, postPath(id)), nil)
	return err
}

func (s *postService) Like(ctx context.Context, id int64) (bool, error) {
	resp, err := s.api.DoJSON(ctx, api.NewRequest(http.MethodPost, postPath(id)+"like/"), nil)
	if err != nil {
		return false, err
	}
	switch resp.StatusCode {
	case http.StatusCreated:
		return true, nil
	case http.StatusOK:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected like status %d", resp.StatusCode)
	}
}

func (s *postService) Comments(ctx context.Context, postID int64, page int) (*model.Page[model.Comment], error) {
	var p model.Page[model.Comment]
	req := withPage(api.NewRequest(http.MethodGet, postPath(postID)+"comments/"), page)
	if _, err := s.api.DoJSON(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postService) AddComment(ctx context.Context, postID int64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}
	req, err := api.JSONRequest(http.MethodPost, postPath(postID)+"comments/", map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	var c model.Comment
	if _, err := s.api.DoJSON(ctx, req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func commentPath(id int64) string {
	return "posts/comments/" + strconv.FormatInt(id, 10) + "/"
}

func (s *postService) UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}
	req, err := api.JSONRequest(http.MethodPatch, commentPath(id), map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	var c model.Comment
	if _, err := s.api.DoJSON(ctx, req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *postService) DeleteComment(ctx context.Context, id int64) error {
	_, err := s.api.DoJSON(ctx, api.NewRequest(http.MethodDelete, commentPath(id)), nil)
	return err
}
