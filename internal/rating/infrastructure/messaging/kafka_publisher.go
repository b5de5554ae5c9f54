package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/videorating/internal/rating/domain"
	"github.com/wyfcoding/videorating/pkg/mq"
)

// Topic 评分领域事件主题
const Topic = "videorating.ratings"

// KafkaPublisher 通过 Kafka 发布评分领域事件
type KafkaPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaPublisher 创建 Kafka 事件发布器
func NewKafkaPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishRatingCreated(ctx context.Context, event domain.RatingCreatedEvent) error {
	return p.producer.SendMessage(ctx, Topic, strconv.FormatUint(uint64(event.UserID), 10), event)
}

func (p *KafkaPublisher) PublishRatingVisibilityChanged(ctx context.Context, event domain.RatingVisibilityChangedEvent) error {
	return p.producer.SendMessage(ctx, Topic, strconv.FormatUint(uint64(event.UserID), 10), event)
}

// NoopPublisher 不发布任何事件，用于测试与本地运行
type NoopPublisher struct{}

// NewNoopPublisher 创建空事件发布器
func NewNoopPublisher() domain.EventPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishRatingCreated(ctx context.Context, event domain.RatingCreatedEvent) error {
	return nil
}

func (p *NoopPublisher) PublishRatingVisibilityChanged(ctx context.Context, event domain.RatingVisibilityChangedEvent) error {
	return nil
}
