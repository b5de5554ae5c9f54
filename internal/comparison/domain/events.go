package domain

import (
	"context"
	"time"
)

// ComparisonCreatedEventType 比较创建事件类型
const ComparisonCreatedEventType = "ComparisonCreatedEvent"

// ComparisonCreatedEvent 比较创建事件
type ComparisonCreatedEvent struct {
	UserID    uint      `json:"user_id"`
	Video1    string    `json:"video_1"`
	Video2    string    `json:"video_2"`
	CreatedAt time.Time `json:"created_at"`
}

// EventPublisher 比较领域事件发布接口
type EventPublisher interface {
	PublishComparisonCreated(ctx context.Context, event ComparisonCreatedEvent) error
}
