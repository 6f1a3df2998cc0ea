package model

import "time"

// User — публичное представление пользователя, как его отдаёт API.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	Bio        string    `json:"bio"`
	Avatar     *string   `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
	PostsCount *int64    `json:"posts_count,omitempty"`
}
