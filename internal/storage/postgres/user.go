package postgres

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
	"github.com/VitaminP8/petforum/models"
)

type UserPostgresStorage struct{}

func NewUserPostgresStorage() *UserPostgresStorage {
	return &UserPostgresStorage{}
}

func (s *UserPostgresStorage) Create(ctx context.Context, username, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
	}

	// уникальный индекс на username - окончательная проверка дубликата
	err = DB.Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", username, storage.ErrConflict)
		}
		return nil, storage.Unavailable("failed to create user", err)
	}

	return &model.User{
		ID:       fmt.Sprint(user.ID),
		Username: user.Username,
	}, nil
}

func (s *UserPostgresStorage) Exists(ctx context.Context, username string) (bool, error) {
	var count int
	err := DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, storage.Unavailable("could not check user", err)
	}
	return count > 0, nil
}

func (s *UserPostgresStorage) FindByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	// ровно одна строка; больше одной - нарушенная уникальность, тоже NotFound
	var users []models.User
	err := DB.Where("username = ?", username).Limit(2).Find(&users).Error
	if err != nil {
		return nil, storage.Unavailable("could not find user", err)
	}
	if len(users) != 1 {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}

	user := users[0]
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("invalid password or username: %w", storage.ErrNotFound)
	}

	return &model.User{
		ID:       fmt.Sprint(user.ID),
		Username: user.Username,
	}, nil
}

func (s *UserPostgresStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, storage.ErrNotFound)
	}

	var user models.User
	err := DB.First(&user, uid).Error
	if err != nil {
		return nil, dbError("could not get user by id", err)
	}

	return &model.User{
		ID:       fmt.Sprint(user.ID),
		Username: user.Username,
	}, nil
}

func (s *UserPostgresStorage) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))

	var keys []uint
	for _, id := range ids {
		if uid, ok := parseID(id); ok {
			keys = append(keys, uid)
		}
	}
	if len(keys) == 0 {
		return names, nil
	}

	var users []models.User
	err := DB.Select("id, username").Where("id IN (?)", keys).Find(&users).Error
	if err != nil {
		return nil, storage.Unavailable("could not get usernames", err)
	}
	for _, u := range users {
		names[fmt.Sprint(u.ID)] = u.Username
	}
	return names, nil
}
