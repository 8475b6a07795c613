package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

type UserMemoryStorage struct {
	mu        sync.Mutex
	users     map[string]*model.User // username -> user
	byID      map[string]*model.User
	passwords map[string]string // username -> bcrypt-хеш
	nextId    int
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:     make(map[string]*model.User),
		byID:      make(map[string]*model.User),
		passwords: make(map[string]string),
		nextId:    1,
	}
}

func (s *UserMemoryStorage) Create(ctx context.Context, username, password string) (*model.User, error) {
	// bcrypt медленный, считаем хеш до захвата мьютекса
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrConflict)
	}

	user := &model.User{
		ID:       strconv.Itoa(s.nextId),
		Username: username,
	}
	s.nextId++

	s.users[username] = user
	s.byID[user.ID] = user
	s.passwords[username] = string(hashedPassword)

	copied := *user
	return &copied, nil
}

func (s *UserMemoryStorage) Exists(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.users[username]
	return exists, nil
}

func (s *UserMemoryStorage) FindByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	s.mu.Lock()
	user, exists := s.users[username]
	hashedPassword := s.passwords[username]
	s.mu.Unlock()

	if !exists || hashedPassword == "" {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("invalid password or username: %w", storage.ErrNotFound)
	}

	copied := *user
	return &copied, nil
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, storage.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (s *UserMemoryStorage) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if user, ok := s.byID[id]; ok {
			names[id] = user.Username
		}
	}
	return names, nil
}
