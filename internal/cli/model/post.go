package model

import "time"

// Post - post as returned by the posts API.
type Post struct {
	ID            int64     `json:"id"`
	Author        User      `json:"author"`
	Content       string    `json:"content"`
	Image         *string   `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
	Comments      []Comment `json:"comments,omitempty"`
}

// Comment - comment on a post.
type Comment struct {
	ID        int64     `json:"id"`
	Author    User      `json:"author"`
	Post      int64     `json:"post"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
