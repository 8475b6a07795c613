package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VitaminP8/petforum/internal/auth"
	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

const (
	MinPasswordLength = 4
	MaxUsernameLength = 50
)

// Service - регистрация и вход поверх UserStorage
type Service struct {
	store  UserStorage
	secret string
	ttl    time.Duration
}

func NewService(store UserStorage, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{store: store, secret: jwtSecret, ttl: tokenTTL}
}

// Register создает пользователя. confirm проверяется, только если передан.
func (s *Service) Register(ctx context.Context, username, password, confirm string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, storage.NewValidationError("username", "must not be empty")
	}
	if len([]rune(username)) > MaxUsernameLength {
		return nil, storage.NewValidationError("username", fmt.Sprintf("must be at most %d characters", MaxUsernameLength))
	}
	if len([]rune(password)) < MinPasswordLength {
		return nil, storage.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if confirm != "" && confirm != password {
		return nil, storage.NewValidationError("passwordConfirm", "passwords do not match")
	}

	exists, err := s.store.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", username, err)
	}
	if exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrConflict)
	}

	// между Exists и Create имя могут занять, поэтому ошибка Create главнее
	u, err := s.store.Create(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", username, err)
	}
	return u, nil
}

// Login проверяет учетные данные и выдает JWT
func (s *Service) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := s.store.FindByCredentials(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	token, err := auth.IssueToken(s.secret, auth.Identity{UserID: u.ID, Username: u.Username}, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return token, u, nil
}
