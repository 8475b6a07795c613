// Package model содержит типы, которые ядро форума отдает наружу.
package model

import "time"

// UnknownAuthor подставляется вместо имени автора, если пользователь не найден
const UnknownAuthor = "unknown"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PostPage - одна страница ленты постов
type PostPage struct {
	Items      []*Post `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
	TotalPosts int     `json:"totalPosts"`
}

// AuthorNameOr возвращает имя автора или UnknownAuthor
func AuthorNameOr(names map[string]string, authorID string) string {
	if name, ok := names[authorID]; ok && name != "" {
		return name
	}
	return UnknownAuthor
}
