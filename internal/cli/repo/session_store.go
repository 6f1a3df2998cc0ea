package repo

import "SocialSphere/internal/cli/model"

// SessionStore описывает абстракцию хранилища сессии (access/refresh токенов) на клиенте.
// Отсутствующая сессия возвращается как нулевое значение model.Session без ошибки.
type SessionStore interface {
	Get() (model.Session, error)
	Set(s model.Session) error
	// Clear удаляет токены и закешированного пользователя.
	Clear() error
}

// UserCache хранит профиль вошедшего пользователя между запусками.
type UserCache interface {
	SaveUser(u model.User) error
	// LoadUser возвращает nil без ошибки, если пользователь не сохранён.
	LoadUser() (*model.User, error)
}

// Store объединяет оба контракта; все реализации клиента удовлетворяют ему.
type Store interface {
	SessionStore
	UserCache
}
