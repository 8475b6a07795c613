package mocks

import (
	"sync"

	"github.com/VitaminP8/petforum/internal/model"
)

// MockSubscriptionManager запоминает опубликованные комментарии вместо рассылки
type MockSubscriptionManager struct {
	mu            sync.Mutex
	notifications map[string][]*model.Comment
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		notifications: make(map[string][]*model.Comment),
	}
}

// Subscribe возвращает уже закрытый канал
func (m *MockSubscriptionManager) Subscribe(postID string) (<-chan *model.Comment, func()) {
	ch := make(chan *model.Comment)
	close(ch)
	return ch, func() {}
}

func (m *MockSubscriptionManager) Publish(postID string, comment *model.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[postID] = append(m.notifications[postID], comment)
}

// GetNotificationsForPost - вспомогательный метод для тестирования,
// возвращает все уведомления для конкретного поста
func (m *MockSubscriptionManager) GetNotificationsForPost(postID string) []*model.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifications[postID]
}
