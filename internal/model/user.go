package model

import "time"

// User — учётная запись социальной сети.
type User struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex;size:150;not null"`
	Email    string `gorm:"size:254"`
	Password string `gorm:"not null"` // bcrypt-хеш
	Bio      string `gorm:"type:text"`
	Avatar   string // относительный URL загруженного файла

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
