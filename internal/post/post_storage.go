package post

import (
	"context"

	"github.com/VitaminP8/petforum/internal/model"
)

type PostStorage interface {
	// CreatePost ставит LikeCount = 0 и CreatedAt = now
	CreatePost(ctx context.Context, authorID, title, content string) (*model.Post, error)
	// GetPostByID подставляет model.UnknownAuthor, если автора нет
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	CountPosts(ctx context.Context) (int, error)
	// ListPosts - окно [offset, offset+limit) в порядке created_at DESC, id ASC
	ListPosts(ctx context.Context, offset, limit int) ([]*model.Post, error)
	// AdjustLikeCount атомарно прибавляет delta, не опуская счетчик ниже нуля
	AdjustLikeCount(ctx context.Context, id string, delta int) (int, error)
}
