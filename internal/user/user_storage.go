package user

import (
	"context"

	"github.com/VitaminP8/petforum/internal/model"
)

// UserStorage - доступ к учетным записям пользователей
type UserStorage interface {
	// FindByCredentials возвращает storage.ErrNotFound, если пара не совпала
	FindByCredentials(ctx context.Context, username, password string) (*model.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	// Create возвращает storage.ErrConflict, если имя уже занято
	Create(ctx context.Context, username, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// Usernames - пакетный поиск имен по набору ID (отсутствующие ID пропускаются)
	Usernames(ctx context.Context, ids []string) (map[string]string, error)
}
