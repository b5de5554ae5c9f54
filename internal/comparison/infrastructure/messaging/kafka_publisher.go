package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/videorating/internal/comparison/domain"
	"github.com/wyfcoding/videorating/pkg/mq"
)

// Topic 比较领域事件主题
const Topic = "videorating.comparisons"

// KafkaPublisher 通过 Kafka 发布比较领域事件
type KafkaPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaPublisher 创建 Kafka 事件发布器
func NewKafkaPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishComparisonCreated(ctx context.Context, event domain.ComparisonCreatedEvent) error {
	return p.producer.SendMessage(ctx, Topic, strconv.FormatUint(uint64(event.UserID), 10), event)
}

// NoopPublisher 不发布任何事件，用于测试与本地运行
type NoopPublisher struct{}

// NewNoopPublisher 创建空事件发布器
func NewNoopPublisher() domain.EventPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishComparisonCreated(ctx context.Context, event domain.ComparisonCreatedEvent) error {
	return nil
}
