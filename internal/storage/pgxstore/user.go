package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func (s *UserStore) Create(ctx context.Context, username, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Username: username}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id::text`,
		username, string(hashedPassword),
	).Scan(&user.ID)
	if err != nil {
		return nil, pgError("user "+username, err)
	}
	return user, nil
}

func (s *UserStore) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, storage.Unavailable("check user", err)
	}
	return exists, nil
}

// FindByCredentials: ровно одна строка с таким username, иначе NotFound
func (s *UserStore) FindByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, username, password FROM users WHERE username = $1 LIMIT 2`, username)
	if err != nil {
		return nil, storage.Unavailable("find user", err)
	}
	type credentials struct {
		user model.User
		hash string
	}
	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (credentials, error) {
		var c credentials
		err := row.Scan(&c.user.ID, &c.user.Username, &c.hash)
		return c, err
	})
	if err != nil {
		return nil, storage.Unavailable("find user", err)
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(matches[0].hash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid password or username: %w", storage.ErrNotFound)
	}
	return &matches[0].user, nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, notFound("user", id)
	}

	var user model.User
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, username FROM users WHERE id = $1`, uid,
	).Scan(&user.ID, &user.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, storage.Unavailable("get user", err)
	}
	return &user, nil
}

// Usernames - один запрос на всю пачку идентификаторов
func (s *UserStore) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))

	keys := make([]int64, 0, len(ids))
	for _, id := range ids {
		if n, ok := parseID(id); ok {
			keys = append(keys, n)
		}
	}
	if len(keys) == 0 {
		return names, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT id::text, username FROM users WHERE id = ANY($1)`, keys)
	if err != nil {
		return nil, storage.Unavailable("lookup usernames", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, storage.Unavailable("scan username", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("lookup usernames", err)
	}
	return names, nil
}
