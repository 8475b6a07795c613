package memory

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

// UserDirectory - поиск авторов для проверки ссылок и подстановки имен
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	Usernames(ctx context.Context, ids []string) (map[string]string, error)
}

type PostMemoryStorage struct {
	mu     sync.Mutex
	posts  map[string]*model.Post
	order  []*model.Post // в порядке вставки (вторичный ключ сортировки)
	nextId int
	users  UserDirectory // может быть nil - тогда все авторы unknown
	now    func() time.Time
}

func NewPostMemoryStorage(users UserDirectory) *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:  make(map[string]*model.Post),
		nextId: 1,
		users:  users,
		now:    time.Now,
	}
}

// SetClock подменяет источник времени (для тестов)
func (s *PostMemoryStorage) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, authorID, title, content string) (*model.Post, error) {
	var authorName string
	if s.users != nil {
		author, err := s.users.GetUserByID(ctx, authorID)
		if err != nil {
			return nil, fmt.Errorf("author %s: %w", authorID, err)
		}
		authorName = author.Username
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextId)
	s.nextId++

	post := &model.Post{
		ID:        id,
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		LikeCount: 0,
		CreatedAt: s.now(),
	}
	s.posts[id] = post
	s.order = append(s.order, post)

	copied := *post
	copied.AuthorName = authorNameOrUnknown(authorName)
	return &copied, nil
}

func (s *PostMemoryStorage) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	post, exists := s.posts[id]
	var copied model.Post
	if exists {
		copied = *post
	}
	s.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("post with ID %s: %w", id, storage.ErrNotFound)
	}

	result := []*model.Post{&copied}
	if err := s.resolveAuthors(ctx, result); err != nil {
		return nil, err
	}
	return result[0], nil
}

func (s *PostMemoryStorage) CountPosts(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts), nil
}

func (s *PostMemoryStorage) ListPosts(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	if offset < 0 || limit < 1 {
		return nil, storage.NewValidationError("range", "offset must be >= 0 and limit >= 1")
	}

	s.mu.Lock()
	sorted := make([]*model.Post, len(s.order))
	copy(sorted, s.order)

	// Новые первыми; при равном времени сохраняется порядок вставки
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if offset >= len(sorted) {
		s.mu.Unlock()
		return []*model.Post{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}

	items := make([]*model.Post, 0, end-offset)
	for _, p := range sorted[offset:end] {
		copied := *p
		items = append(items, &copied)
	}
	s.mu.Unlock()

	if err := s.resolveAuthors(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PostMemoryStorage) AdjustLikeCount(ctx context.Context, id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return 0, fmt.Errorf("post with ID %s: %w", id, storage.ErrNotFound)
	}

	post.LikeCount += delta
	if post.LikeCount < 0 {
		post.LikeCount = 0
	}
	return post.LikeCount, nil
}

// resolveAuthors - один пакетный запрос имен по уникальным authorID
func (s *PostMemoryStorage) resolveAuthors(ctx context.Context, posts []*model.Post) error {
	if s.users == nil {
		for _, p := range posts {
			p.AuthorName = model.UnknownAuthor
		}
		return nil
	}

	names, err := s.users.Usernames(ctx, distinct(posts, func(p *model.Post) string { return p.AuthorID }))
	if err != nil {
		return fmt.Errorf("resolve authors: %w", err)
	}
	for _, p := range posts {
		p.AuthorName = model.AuthorNameOr(names, p.AuthorID)
	}
	return nil
}

func distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func authorNameOrUnknown(name string) string {
	if name == "" {
		return model.UnknownAuthor
	}
	return name
}
