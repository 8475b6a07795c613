package pgxstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

type CommentStore struct {
	pool *pgxpool.Pool
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.Content, &c.AuthorID, &c.AuthorName, &c.CreatedAt); err != nil {
		return nil, err
	}
	if c.AuthorName == "" {
		c.AuthorName = model.UnknownAuthor
	}
	return &c, nil
}

func (s *CommentStore) CreateComment(ctx context.Context, authorID, postID, content string) (*model.Comment, error) {
	pid, ok := parseID(postID)
	if !ok {
		return nil, notFound("post", postID)
	}
	uid, ok := parseID(authorID)
	if !ok {
		return nil, notFound("author", authorID)
	}

	comment, err := scanComment(s.pool.QueryRow(ctx, `
		WITH c AS (
			INSERT INTO comments (post_id, author_id, content) VALUES ($1, $2, $3)
			RETURNING id, post_id, author_id, content, created_at
		)
		SELECT c.id::text, c.post_id::text, c.content, c.author_id::text, COALESCE(u.username, ''), c.created_at
		FROM c LEFT JOIN users u ON u.id = c.author_id`,
		pid, uid, content,
	))
	if err != nil {
		return nil, pgError("create comment on post "+postID, err)
	}
	return comment, nil
}

func (s *CommentStore) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	pid, ok := parseID(postID)
	if !ok {
		return nil, notFound("post", postID)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, pid).Scan(&exists); err != nil {
		return nil, storage.Unavailable("check post", err)
	}
	if !exists {
		return nil, notFound("post", postID)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.id::text, c.post_id::text, c.content, c.author_id::text, COALESCE(u.username, ''), c.created_at
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id ASC`, pid)
	if err != nil {
		return nil, storage.Unavailable("list comments", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, storage.Unavailable("scan comment", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("list comments", err)
	}
	return comments, nil
}

func (s *CommentStore) CountComments(ctx context.Context, postID string) (int, error) {
	pid, ok := parseID(postID)
	if !ok {
		return 0, nil
	}

	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, pid).Scan(&count); err != nil {
		return 0, storage.Unavailable("count comments", err)
	}
	return count, nil
}
