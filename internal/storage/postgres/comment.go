package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
	"github.com/VitaminP8/petforum/models"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

type commentRow struct {
	ID         uint
	PostID     uint
	Content    string
	AuthorID   uint
	CreatedAt  time.Time
	AuthorName string
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, authorID, postID, content string) (*model.Comment, error) {
	pid, ok := parseID(postID)
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", postID, storage.ErrNotFound)
	}
	uid, ok := parseID(authorID)
	if !ok {
		return nil, fmt.Errorf("author %s: %w", authorID, storage.ErrNotFound)
	}

	var post models.Post
	err := DB.Select("id").First(&post, pid).Error
	if err != nil {
		return nil, dbError("post not found", err)
	}

	var author models.User
	err = DB.Select("id, username").First(&author, uid).Error
	if err != nil {
		return nil, dbError("author not found", err)
	}

	comment := &models.Comment{
		PostID:  pid,
		UserID:  uid,
		Content: content,
	}

	err = DB.Create(comment).Error
	if err != nil {
		return nil, storage.Unavailable("could not create comment", err)
	}

	return &model.Comment{
		ID:         fmt.Sprint(comment.ID),
		PostID:     fmt.Sprint(comment.PostID),
		Content:    comment.Content,
		AuthorID:   fmt.Sprint(comment.UserID),
		AuthorName: author.Username,
		CreatedAt:  comment.CreatedAt,
	}, nil
}

func (s *CommentPostgresStorage) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	pid, ok := parseID(postID)
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", postID, storage.ErrNotFound)
	}

	var post models.Post
	err := DB.Select("id").First(&post, pid).Error
	if err != nil {
		return nil, dbError("could not get post", err)
	}

	var rows []commentRow
	err = DB.Table("comments").
		Select("comments.id, comments.post_id, comments.content, comments.author_id, comments.created_at, "+
			"COALESCE(users.username, '') AS author_name").
		Joins("LEFT JOIN users ON users.id = comments.author_id").
		Where("comments.post_id = ? AND comments.deleted_at IS NULL", pid).
		Order("comments.created_at DESC").
		Order("comments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storage.Unavailable("could not get comments", err)
	}

	results := make([]*model.Comment, 0, len(rows))
	for _, row := range rows {
		name := row.AuthorName
		if name == "" {
			name = model.UnknownAuthor
		}
		results = append(results, &model.Comment{
			ID:         fmt.Sprint(row.ID),
			PostID:     fmt.Sprint(row.PostID),
			Content:    row.Content,
			AuthorID:   fmt.Sprint(row.AuthorID),
			AuthorName: name,
			CreatedAt:  row.CreatedAt,
		})
	}
	return results, nil
}

func (s *CommentPostgresStorage) CountComments(ctx context.Context, postID string) (int, error) {
	pid, ok := parseID(postID)
	if !ok {
		return 0, nil
	}

	var count int
	err := DB.Model(&models.Comment{}).Where("post_id = ?", pid).Count(&count).Error
	if err != nil {
		return 0, storage.Unavailable("could not count comments", err)
	}
	return count, nil
}
