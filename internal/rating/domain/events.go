package domain

import (
	"context"
	"time"
)

// 评分领域事件类型
const (
	RatingCreatedEventType           = "RatingCreatedEvent"
	RatingVisibilityChangedEventType = "RatingVisibilityChangedEvent"
)

// RatingCreatedEvent 评分创建事件
type RatingCreatedEvent struct {
	UserID    uint      `json:"user_id"`
	VideoID   string    `json:"video_id"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingVisibilityChangedEvent 评分可见性变更事件；Bulk 为 true 时 VideoID 为空
type RatingVisibilityChangedEvent struct {
	UserID    uint      `json:"user_id"`
	VideoID   string    `json:"video_id,omitempty"`
	IsPublic  bool      `json:"is_public"`
	Bulk      bool      `json:"bulk"`
	ChangedAt time.Time `json:"changed_at"`
}

// EventPublisher 评分领域事件发布接口
type EventPublisher interface {
	PublishRatingCreated(ctx context.Context, event RatingCreatedEvent) error
	PublishRatingVisibilityChanged(ctx context.Context, event RatingVisibilityChangedEvent) error
}
