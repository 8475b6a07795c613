// Package engagement считает производные величины ленты (страницы, комментарии)
// и меняет счетчик лайков поста.
package engagement

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/VitaminP8/petforum/internal/storage"
)

// DefaultParallelism - сколько подсчетов комментариев идет одновременно
const DefaultParallelism = 8

type PostStore interface {
	CountPosts(ctx context.Context) (int, error)
	AdjustLikeCount(ctx context.Context, id string, delta int) (int, error)
}

type CommentCounter interface {
	CountComments(ctx context.Context, postID string) (int, error)
}

type Aggregator struct {
	posts       PostStore
	comments    CommentCounter
	parallelism int
}

func NewAggregator(posts PostStore, comments CommentCounter) *Aggregator {
	return &Aggregator{
		posts:       posts,
		comments:    comments,
		parallelism: DefaultParallelism,
	}
}

// TotalPages = ceil(total / pageSize); 0 для пустой ленты
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func (a *Aggregator) PageCount(ctx context.Context, pageSize int) (int, int, error) {
	if pageSize < 1 {
		return 0, 0, storage.NewValidationError("pageSize", "must be >= 1")
	}

	total, err := a.posts.CountPosts(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count posts: %w", err)
	}
	return TotalPages(total, pageSize), total, nil
}

func (a *Aggregator) CountComments(ctx context.Context, postID string) (int, error) {
	n, err := a.comments.CountComments(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("count comments of post %s: %w", postID, err)
	}
	return n, nil
}

// CountCommentsForPosts считает комментарии для каждого поста страницы параллельно.
// Первая ошибка отменяет остальные запросы.
func (a *Aggregator) CountCommentsForPosts(ctx context.Context, postIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallelism)

	for _, id := range postIDs {
		g.Go(func() error {
			n, err := a.CountComments(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			counts[id] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// ToggleLike: currentlyLiked=false ставит лайк (+1), true снимает (-1).
// Изменение атомарно на стороне хранилища; счетчик не уходит ниже нуля.
func (a *Aggregator) ToggleLike(ctx context.Context, postID string, currentlyLiked bool) (int, error) {
	delta := 1
	if currentlyLiked {
		delta = -1
	}

	n, err := a.posts.AdjustLikeCount(ctx, postID, delta)
	if err != nil {
		return 0, fmt.Errorf("toggle like of post %s: %w", postID, err)
	}
	return n, nil
}
