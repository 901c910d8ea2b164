package mq

import (
	"context"
	"encoding/json"
	"time"

	"video-aggregation-service/pkg/config"
	pkgkafka "video-aggregation-service/pkg/kafka"
	"video-aggregation-service/pkg/logger"
)

// 生命周期事件类型
const (
	EventVideoSaved   = "video.saved"
	EventVideoFailed  = "video.failed"
	EventVideoDeleted = "video.deleted"
)

// VideoLifecycleEvent 视频生命周期事件载荷
type VideoLifecycleEvent struct {
	Event         string    `json:"event"`
	VideoID       string    `json:"video_id"`
	SourceVideoID string    `json:"source_video_id,omitempty"`
	Status        string    `json:"status"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventPublisher 视频生命周期事件发布器
type EventPublisher interface {
	PublishVideoEvent(ctx context.Context, event *VideoLifecycleEvent)
}

// KafkaEventPublisher 基于Kafka的事件发布实现
type KafkaEventPublisher struct {
	client *pkgkafka.Client
	topic  string
}

// NewKafkaEventPublisher 创建Kafka事件发布器
func NewKafkaEventPublisher(client *pkgkafka.Client, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{client: client, topic: topic}
}

// PublishVideoEvent 发布事件。事件为尽力投递，失败只记录日志不影响主流程。
func (p *KafkaEventPublisher) PublishVideoEvent(ctx context.Context, event *VideoLifecycleEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Failed to marshal lifecycle event %v", err)
		return
	}
	if err := p.client.Produce(ctx, p.topic, []byte(event.VideoID), data); err != nil {
		logger.Error("Failed to publish lifecycle event", map[string]interface{}{
			"event":    event.Event,
			"video_id": event.VideoID,
			"error":    err.Error(),
		})
	}
}

// NoopEventPublisher Kafka未启用时的空实现
type NoopEventPublisher struct{}

func (p *NoopEventPublisher) PublishVideoEvent(ctx context.Context, event *VideoLifecycleEvent) {}

// NewEventPublisher 根据配置选择事件发布实现
func NewEventPublisher(cfg *config.Config) EventPublisher {
	if cfg == nil || !cfg.Kafka.Enabled {
		return &NoopEventPublisher{}
	}
	return NewKafkaEventPublisher(pkgkafka.DefaultClient(), cfg.Kafka.Topics.VideoLifecycle)
}
