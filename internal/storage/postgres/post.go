package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
	"github.com/VitaminP8/petforum/models"
)

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

// postRow - пост вместе с именем автора из LEFT JOIN
type postRow struct {
	ID         uint
	Title      string
	Content    string
	AuthorID   uint
	LikeCount  int
	CreatedAt  time.Time
	AuthorName string
}

func (r postRow) toModel() *model.Post {
	name := r.AuthorName
	if name == "" {
		name = model.UnknownAuthor
	}
	return &model.Post{
		ID:         fmt.Sprint(r.ID),
		Title:      r.Title,
		Content:    r.Content,
		AuthorID:   fmt.Sprint(r.AuthorID),
		AuthorName: name,
		LikeCount:  r.LikeCount,
		CreatedAt:  r.CreatedAt,
	}
}

func postsWithAuthor() *gorm.DB {
	return DB.Table("posts").
		Select("posts.id, posts.title, posts.content, posts.author_id, posts.like_count, posts.created_at, " +
			"COALESCE(users.username, '') AS author_name").
		Joins("LEFT JOIN users ON users.id = posts.author_id").
		Where("posts.deleted_at IS NULL")
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, authorID, title, content string) (*model.Post, error) {
	uid, ok := parseID(authorID)
	if !ok {
		return nil, fmt.Errorf("author %s: %w", authorID, storage.ErrNotFound)
	}

	var author models.User
	err := DB.First(&author, uid).Error
	if err != nil {
		return nil, dbError("could not get post author", err)
	}

	post := &models.Post{
		Title:     title,
		Content:   content,
		UserID:    uid,
		LikeCount: 0,
	}

	err = DB.Create(post).Error
	if err != nil {
		return nil, storage.Unavailable("could not create post", err)
	}

	return &model.Post{
		ID:         fmt.Sprint(post.ID),
		Title:      post.Title,
		Content:    post.Content,
		AuthorID:   fmt.Sprint(post.UserID),
		AuthorName: author.Username,
		LikeCount:  post.LikeCount,
		CreatedAt:  post.CreatedAt,
	}, nil
}

func (s *PostPostgresStorage) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	pid, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", id, storage.ErrNotFound)
	}

	var rows []postRow
	err := postsWithAuthor().Where("posts.id = ?", pid).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, storage.Unavailable("could not get post by id", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("post with ID %s: %w", id, storage.ErrNotFound)
	}

	return rows[0].toModel(), nil
}

func (s *PostPostgresStorage) CountPosts(ctx context.Context) (int, error) {
	var count int
	err := DB.Model(&models.Post{}).Count(&count).Error
	if err != nil {
		return 0, storage.Unavailable("could not count posts", err)
	}
	return count, nil
}

func (s *PostPostgresStorage) ListPosts(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	if offset < 0 || limit < 1 {
		return nil, storage.NewValidationError("range", "offset must be >= 0 and limit >= 1")
	}

	var rows []postRow
	err := postsWithAuthor().
		Order("posts.created_at DESC").
		Order("posts.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, storage.Unavailable("could not get posts", err)
	}

	results := make([]*model.Post, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toModel())
	}
	return results, nil
}

// AdjustLikeCount - одно UPDATE с вычислением на стороне БД (без read-modify-write)
func (s *PostPostgresStorage) AdjustLikeCount(ctx context.Context, id string, delta int) (int, error) {
	pid, ok := parseID(id)
	if !ok {
		return 0, fmt.Errorf("post with ID %s: %w", id, storage.ErrNotFound)
	}

	var likeCount int
	err := DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ?", pid).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END", delta, delta))
		if res.Error != nil {
			return storage.Unavailable("could not update like count", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post with ID %s: %w", id, storage.ErrNotFound)
		}

		var post models.Post
		if err := tx.Select("like_count").Where("id = ?", pid).First(&post).Error; err != nil {
			return dbError("could not read like count", err)
		}
		likeCount = post.LikeCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return likeCount, nil
}
