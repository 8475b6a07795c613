package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования.
// Пароли хранятся как есть - хеширование проверяется в тестах реальных хранилищ.
type MockUserStorage struct {
	mu        sync.Mutex
	users     map[string]*model.User // username -> user
	passwords map[string]string      // username -> password
	nextID    int

	// HideFromExists - Exists всегда отвечает false (имитация гонки двух регистраций)
	HideFromExists bool
	// Err - если задана, возвращается из каждого метода (имитация недоступного хранилища)
	Err error
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:     make(map[string]*model.User),
		passwords: make(map[string]string),
		nextID:    1,
	}
}

func (m *MockUserStorage) FindByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	user, exists := m.users[username]
	if !exists || m.passwords[username] != password {
		return nil, fmt.Errorf("invalid password or username: %w", storage.ErrNotFound)
	}

	copied := *user
	return &copied, nil
}

func (m *MockUserStorage) Exists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return false, m.Err
	}
	if m.HideFromExists {
		return false, nil
	}
	_, exists := m.users[username]
	return exists, nil
}

func (m *MockUserStorage) Create(ctx context.Context, username, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if _, exists := m.users[username]; exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrConflict)
	}

	user := &model.User{
		ID:       strconv.Itoa(m.nextID),
		Username: username,
	}
	m.nextID++

	m.users[username] = user
	m.passwords[username] = password

	copied := *user
	return &copied, nil
}

func (m *MockUserStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for _, user := range m.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user with ID %s: %w", id, storage.ErrNotFound)
}

func (m *MockUserStorage) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	names := make(map[string]string)
	for _, id := range ids {
		for _, user := range m.users {
			if user.ID == id {
				names[id] = user.Username
			}
		}
	}
	return names, nil
}
