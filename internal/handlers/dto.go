package handlers

import (
	"SocialSphere/internal/model"
	"SocialSphere/internal/service"
	"net/http"
	"time"
)

// DTO ответов API
type UserDTO struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	Bio        string    `json:"bio"`
	Avatar     *string   `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
	PostsCount *int64    `json:"posts_count,omitempty"`
}

type PostDTO struct {
	ID            int64        `json:"id"`
	Author        UserDTO      `json:"author"`
	Content       string       `json:"content"`
	Image         *string      `json:"image"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	LikesCount    int64        `json:"likes_count"`
	CommentsCount int64        `json:"comments_count"`
	IsLiked       bool         `json:"is_liked"`
	Comments      []CommentDTO `json:"comments,omitempty"`
}

type CommentDTO struct {
	ID        int64     `json:"id"`
	Author    UserDTO   `json:"author"`
	Post      int64     `json:"post"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User    UserDTO `json:"user"`
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// toUserDTO; email отдаётся только владельцу.
func toUserDTO(r *http.Request, u *model.User, withEmail bool) UserDTO {
	if u == nil {
		return UserDTO{}
	}
	dto := UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Bio:       u.Bio,
		Avatar:    absURL(r, u.Avatar),
		CreatedAt: u.CreatedAt,
	}
	if withEmail {
		dto.Email = u.Email
	}
	return dto
}

func toCommentDTO(r *http.Request, c *model.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		Author:    toUserDTO(r, c.User, false),
		Post:      c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toPostDTO(r *http.Request, p *service.PostView) PostDTO {
	dto := PostDTO{
		ID:            p.ID,
		Author:        toUserDTO(r, p.User, false),
		Content:       p.Content,
		Image:         absURL(r, p.Image),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		IsLiked:       p.IsLiked,
	}
	for i := range p.Comments {
		dto.Comments = append(dto.Comments, toCommentDTO(r, &p.Comments[i]))
	}
	return dto
}

// PostPageDTO и CommentPageDTO — пагинированные ответы списков.
type PostPageDTO = pageDTO[PostDTO]

type CommentPageDTO = pageDTO[CommentDTO]
