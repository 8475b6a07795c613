package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

// MockPostStorage реализует post.PostStorage без проверки авторов
type MockPostStorage struct {
	posts map[string]*model.Post
	mu    sync.Mutex

	// Err - если задана, возвращается из каждого метода
	Err error
	// ListCalls - сколько раз вызывался ListPosts
	ListCalls int
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts: make(map[string]*model.Post),
	}
}

func (m *MockPostStorage) CreatePost(ctx context.Context, authorID, title, content string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	id := strconv.Itoa(len(m.posts) + 1)
	post := &model.Post{
		ID:         id,
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: "author-" + authorID,
		CreatedAt:  time.Now(),
	}
	m.posts[id] = post

	copied := *post
	return &copied, nil
}

func (m *MockPostStorage) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	copied := *post
	return &copied, nil
}

func (m *MockPostStorage) CountPosts(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.posts), nil
}

func (m *MockPostStorage) ListPosts(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if m.Err != nil {
		return nil, m.Err
	}

	posts := make([]*model.Post, 0, len(m.posts))
	for _, post := range m.posts {
		copied := *post
		posts = append(posts, &copied)
	}
	sort.Slice(posts, func(i, j int) bool {
		a, _ := strconv.Atoi(posts[i].ID)
		b, _ := strconv.Atoi(posts[j].ID)
		return a > b
	})

	if offset >= len(posts) {
		return []*model.Post{}, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (m *MockPostStorage) AdjustLikeCount(ctx context.Context, id string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	post, ok := m.posts[id]
	if !ok {
		return 0, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	post.LikeCount += delta
	if post.LikeCount < 0 {
		post.LikeCount = 0
	}
	return post.LikeCount, nil
}
