package domain

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 用户不存在
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken 用户名已被占用
	ErrUsernameTaken = errors.New("a user with that username already exists")
	// ErrEmailTaken 邮箱已被占用
	ErrEmailTaken = errors.New("a user with that email address already exists")
)

// User 平台注册用户
type User struct {
	gorm.Model
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(128);not null" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
