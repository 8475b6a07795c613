package pgxstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

type PostStore struct {
	pool *pgxpool.Pool
}

const selectPosts = `
	SELECT p.id::text, p.title, p.content, p.author_id::text, COALESCE(u.username, ''), p.like_count, p.created_at
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorName, &p.LikeCount, &p.CreatedAt); err != nil {
		return nil, err
	}
	if p.AuthorName == "" {
		p.AuthorName = model.UnknownAuthor
	}
	return &p, nil
}

func (s *PostStore) CreatePost(ctx context.Context, authorID, title, content string) (*model.Post, error) {
	uid, ok := parseID(authorID)
	if !ok {
		return nil, notFound("author", authorID)
	}

	post, err := scanPost(s.pool.QueryRow(ctx, `
		WITH p AS (
			INSERT INTO posts (title, content, author_id) VALUES ($1, $2, $3)
			RETURNING id, title, content, author_id, like_count, created_at
		)
		SELECT p.id::text, p.title, p.content, p.author_id::text, COALESCE(u.username, ''), p.like_count, p.created_at
		FROM p LEFT JOIN users u ON u.id = p.author_id`,
		title, content, uid,
	))
	if err != nil {
		// несуществующий автор ловится внешним ключом
		return nil, pgError("create post", err)
	}
	return post, nil
}

func (s *PostStore) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	pid, ok := parseID(id)
	if !ok {
		return nil, notFound("post", id)
	}

	post, err := scanPost(s.pool.QueryRow(ctx, selectPosts+` WHERE p.id = $1`, pid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("post", id)
	}
	if err != nil {
		return nil, storage.Unavailable("get post", err)
	}
	return post, nil
}

func (s *PostStore) CountPosts(ctx context.Context) (int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return 0, storage.Unavailable("count posts", err)
	}
	return total, nil
}

func (s *PostStore) ListPosts(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	if offset < 0 || limit < 1 {
		return nil, storage.NewValidationError("range", "offset must be >= 0 and limit >= 1")
	}

	rows, err := s.pool.Query(ctx,
		selectPosts+` ORDER BY p.created_at DESC, p.id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, storage.Unavailable("list posts", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, storage.Unavailable("scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("list posts", err)
	}
	return posts, nil
}

// AdjustLikeCount меняет счетчик одним UPDATE, значение не уходит ниже нуля
func (s *PostStore) AdjustLikeCount(ctx context.Context, id string, delta int) (int, error) {
	pid, ok := parseID(id)
	if !ok {
		return 0, notFound("post", id)
	}

	var likeCount int
	err := s.pool.QueryRow(ctx,
		`UPDATE posts SET like_count = GREATEST(like_count + $2, 0) WHERE id = $1 RETURNING like_count`,
		pid, delta,
	).Scan(&likeCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, notFound("post", id)
	}
	if err != nil {
		return 0, storage.Unavailable("adjust like count", err)
	}
	return likeCount, nil
}
