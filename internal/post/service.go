package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/petforum/internal/auth"
	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
)

// Engagement - то, что сервису нужно от агрегатора (engagement.Aggregator)
type Engagement interface {
	PageCount(ctx context.Context, pageSize int) (totalPages, totalPosts int, err error)
	CountComments(ctx context.Context, postID string) (int, error)
	CountCommentsForPosts(ctx context.Context, postIDs []string) (map[string]int, error)
}

type Service struct {
	store      PostStorage
	engagement Engagement
}

func NewService(store PostStorage, engagement Engagement) *Service {
	return &Service{store: store, engagement: engagement}
}

func (s *Service) CreatePost(ctx context.Context, who auth.Identity, title, content string) (*model.Post, error) {
	if !who.Valid() {
		return nil, storage.NewValidationError("author", "authenticated user is required")
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	switch {
	case title == "":
		return nil, storage.NewValidationError("title", "must not be empty")
	case content == "":
		return nil, storage.NewValidationError("content", "must not be empty")
	case len([]rune(title)) > MaxTitleLength:
		return nil, storage.NewValidationError("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	case len([]rune(content)) > MaxContentLength:
		return nil, storage.NewValidationError("content", fmt.Sprintf("must be at most %d characters", MaxContentLength))
	}

	p, err := s.store.CreatePost(ctx, who.UserID, title, content)
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}
	return p, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get post %s: %w", id, err)
	}

	count, err := s.engagement.CountComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not count comments of post %s: %w", id, err)
	}
	p.CommentCount = count

	return p, nil
}

// ListPosts возвращает страницу page (с 1) ленты, новые посты первыми.
// Счетчик и выборка строк - два отдельных запроса, вставка между ними может сдвинуть окно на один пост.
func (s *Service) ListPosts(ctx context.Context, page, pageSize int) (*model.PostPage, error) {
	if page < 1 {
		return nil, storage.NewValidationError("page", "must be >= 1")
	}
	if pageSize < 1 {
		return nil, storage.NewValidationError("pageSize", "must be >= 1")
	}

	totalPages, totalPosts, err := s.engagement.PageCount(ctx, pageSize)
	if err != nil {
		return nil, fmt.Errorf("could not count posts: %w", err)
	}

	result := &model.PostPage{
		Items:      []*model.Post{},
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalPosts: totalPosts,
	}
	if page > totalPages {
		return result, nil
	}

	posts, err := s.store.ListPosts(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("could not list posts: %w", err)
	}
	if len(posts) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := s.engagement.CountCommentsForPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not count comments: %w", err)
	}
	for _, p := range posts {
		p.CommentCount = counts[p.ID]
	}

	result.Items = posts
	return result, nil
}
