package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

// MockCommentStorage реализует comment.CommentStorage.
// Существование поста задается через AddPost.
type MockCommentStorage struct {
	mu       sync.Mutex
	posts    map[string]bool
	comments map[string][]*model.Comment // postID -> комментарии
	nextID   int

	// CountErr - ошибка CountComments для конкретного поста
	CountErr map[string]error
	// CountDelay - задержка CountComments (для проверки параллельного подсчета)
	CountDelay time.Duration

	inFlight    int
	maxInFlight int
}

func NewMockCommentStorage() *MockCommentStorage {
	return &MockCommentStorage{
		posts:    make(map[string]bool),
		comments: make(map[string][]*model.Comment),
		nextID:   1,
		CountErr: make(map[string]error),
	}
}

func (m *MockCommentStorage) AddPost(postID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[postID] = true
}

func (m *MockCommentStorage) CreateComment(ctx context.Context, authorID, postID, content string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.posts[postID] {
		return nil, fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}

	c := &model.Comment{
		ID:         strconv.Itoa(m.nextID),
		PostID:     postID,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: "author-" + authorID,
		CreatedAt:  time.Now(),
	}
	m.nextID++
	m.comments[postID] = append(m.comments[postID], c)

	copied := *c
	return &copied, nil
}

func (m *MockCommentStorage) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.posts[postID] {
		return nil, fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}

	list := m.comments[postID]
	result := make([]*model.Comment, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		copied := *list[i]
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockCommentStorage) CountComments(ctx context.Context, postID string) (int, error) {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	delay := m.CountDelay
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.CountErr[postID]; err != nil {
		return 0, err
	}
	return len(m.comments[postID]), nil
}

// MaxInFlight - наибольшее число одновременных CountComments
func (m *MockCommentStorage) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}
