package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/post"
)

type CommentMemoryStorage struct {
	mu          sync.Mutex
	byPost      map[string][]*model.Comment // postID -> комментарии в порядке вставки
	nextID      int
	postStorage post.PostStorage // для проверки существования поста
	users       UserDirectory
	now         func() time.Time
}

func NewCommentMemoryStorage(postStore post.PostStorage, users UserDirectory) *CommentMemoryStorage {
	return &CommentMemoryStorage{
		byPost:      make(map[string][]*model.Comment),
		nextID:      1,
		postStorage: postStore,
		users:       users,
		now:         time.Now,
	}
}

// SetClock подменяет источник времени (для тестов)
func (s *CommentMemoryStorage) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, authorID, postID, content string) (*model.Comment, error) {
	if _, err := s.postStorage.GetPostByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post with ID %s: %w", postID, err)
	}

	authorName := model.UnknownAuthor
	if s.users != nil {
		author, err := s.users.GetUserByID(ctx, authorID)
		if err != nil {
			return nil, fmt.Errorf("author %s: %w", authorID, err)
		}
		authorName = author.Username
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	comment := &model.Comment{
		ID:        strconv.Itoa(s.nextID),
		PostID:    postID,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.byPost[postID] = append(s.byPost[postID], comment)

	copied := *comment
	copied.AuthorName = authorName
	return &copied, nil
}

func (s *CommentMemoryStorage) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	if _, err := s.postStorage.GetPostByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post with ID %s: %w", postID, err)
	}

	s.mu.Lock()
	items := make([]*model.Comment, 0, len(s.byPost[postID]))
	for _, c := range s.byPost[postID] {
		copied := *c
		items = append(items, &copied)
	}
	s.mu.Unlock()

	// Новые первыми; при равном времени - порядок вставки
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if s.users == nil {
		for _, c := range items {
			c.AuthorName = model.UnknownAuthor
		}
		return items, nil
	}

	names, err := s.users.Usernames(ctx, distinct(items, func(c *model.Comment) string { return c.AuthorID }))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	for _, c := range items {
		c.AuthorName = model.AuthorNameOr(names, c.AuthorID)
	}
	return items, nil
}

func (s *CommentMemoryStorage) CountComments(ctx context.Context, postID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byPost[postID]), nil
}
