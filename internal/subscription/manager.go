package subscription

import (
	"sync"

	"github.com/VitaminP8/petforum/internal/model"
)

// subscriberBuffer - сколько непрочитанных комментариев копится у подписчика до потерь
const subscriberBuffer = 8

// SubscriptionManager рассылает новые комментарии подписчикам поста
type SubscriptionManager struct {
	mu   sync.Mutex
	subs map[string][]chan *model.Comment // postID -> каналы подписчиков
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[string][]chan *model.Comment),
	}
}

// Subscribe возвращает канал и функцию отписки (закрывает канал, повторный вызов безопасен)
func (m *SubscriptionManager) Subscribe(postID string) (<-chan *model.Comment, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *model.Comment, subscriberBuffer)
	m.subs[postID] = append(m.subs[postID], ch)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()

			subscribers := m.subs[postID]
			for i, sub := range subscribers {
				if sub == ch {
					m.subs[postID] = append(subscribers[:i], subscribers[i+1:]...)
					close(ch)
					break
				}
			}
			if len(m.subs[postID]) == 0 {
				delete(m.subs, postID)
			}
		})
	}

	return ch, cancel
}

// Publish никогда не ждет подписчика: если буфер канала полон, комментарий для него теряется
func (m *SubscriptionManager) Publish(postID string, comment *model.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[postID] {
		select {
		case sub <- comment:
		default:
		}
	}
}

// Subscribers - число активных подписчиков поста
func (m *SubscriptionManager) Subscribers(postID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[postID])
}
