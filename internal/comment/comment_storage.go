package comment

import (
	"context"

	"github.com/VitaminP8/petforum/internal/model"
)

type CommentStorage interface {
	// CreateComment возвращает storage.ErrNotFound, если поста нет (комментарий не сохраняется)
	CreateComment(ctx context.Context, authorID, postID, content string) (*model.Comment, error)
	// ListComments - весь тред поста, новые первыми
	ListComments(ctx context.Context, postID string) ([]*model.Comment, error)
	CountComments(ctx context.Context, postID string) (int, error)
}
