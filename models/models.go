package models

import "github.com/jinzhu/gorm"

// Строки таблиц users, posts, comments (используются gorm-хранилищем)
type User struct {
	gorm.Model
	Username string    `gorm:"unique_index;not null"`
	Password string    `gorm:"not null"` // bcrypt-хеш
	Posts    []Post    `gorm:"foreignkey:UserID"`
	Comments []Comment `gorm:"foreignkey:UserID"`
}

type Post struct {
	gorm.Model
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
	UserID    uint      `gorm:"column:author_id;not null;index"`
	LikeCount int       `gorm:"not null;default:0"`
	Comments  []Comment `gorm:"foreignkey:PostID"`
}

type Comment struct {
	gorm.Model
	Content string `gorm:"type:text;not null"`
	PostID  uint   `gorm:"not null;index"`
	UserID  uint   `gorm:"column:author_id;not null"`
}
