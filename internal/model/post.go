package model

import "time"

// Post — публикация пользователя.
type Post struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"not null;index"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Content string `gorm:"type:text;not null"`
	Image   string

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Like — отметка "нравится"; пара (UserID, PostID) уникальна.
type Like struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"not null;uniqueIndex:idx_like_user_post"`
	PostID int64 `gorm:"not null;uniqueIndex:idx_like_user_post;index"`
	Post   *Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Comment — комментарий к посту.
type Comment struct {
	ID     int64 `gorm:"primaryKey"`
	PostID int64 `gorm:"not null;index"`
	Post   *Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserID int64 `gorm:"not null;index"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Content string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
