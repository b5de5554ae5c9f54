package domain

import (
	"context"
	"time"
)

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDeletedEvent 用户注销事件
type UserDeletedEvent struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	DeletedAt time.Time `json:"deleted_at"`
}

// EmailChangedEvent 邮箱变更事件
type EmailChangedEvent struct {
	UserID    uint      `json:"user_id"`
	OldEmail  string    `json:"old_email"`
	NewEmail  string    `json:"new_email"`
	ChangedAt time.Time `json:"changed_at"`
}

// EventPublisher 账户领域事件发布接口
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event *UserRegisteredEvent) error
	PublishUserDeleted(ctx context.Context, event *UserDeletedEvent) error
	PublishEmailChanged(ctx context.Context, event *EmailChangedEvent) error
}
