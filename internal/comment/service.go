package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/petforum/internal/auth"
	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
	"github.com/VitaminP8/petforum/internal/subscription"
)

const MaxContentLength = 2000

type Service struct {
	store   CommentStorage
	manager subscription.Manager
}

// manager может быть nil - тогда новые комментарии никуда не рассылаются
func NewService(store CommentStorage, manager subscription.Manager) *Service {
	return &Service{store: store, manager: manager}
}

func (s *Service) CreateComment(ctx context.Context, who auth.Identity, postID, content string) (*model.Comment, error) {
	if !who.Valid() {
		return nil, storage.NewValidationError("author", "authenticated user is required")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, storage.NewValidationError("content", "must not be empty")
	}
	if len([]rune(content)) > MaxContentLength {
		return nil, storage.NewValidationError("content", fmt.Sprintf("must be at most %d characters", MaxContentLength))
	}

	c, err := s.store.CreateComment(ctx, who.UserID, postID, content)
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	if s.manager != nil {
		s.manager.Publish(postID, c)
	}

	return c, nil
}

func (s *Service) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("could not list comments of post %s: %w", postID, err)
	}
	return comments, nil
}
