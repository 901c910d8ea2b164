package resource

import (
	"sync"

	"video-aggregation-service/pkg/config"
	"video-aggregation-service/pkg/kafka"
	"video-aggregation-service/pkg/logger"
	"video-aggregation-service/pkg/manager"
)

var (
	kafkaResourceOnce sync.Once
	kafkaSingleton    *KafkaResource
)

// KafkaResource 管理Kafka生产者客户端的生命周期
type KafkaResource struct {
	opened bool
}

// DefaultKafkaResource 获取Kafka资源单例
func DefaultKafkaResource() *KafkaResource {
	kafkaResourceOnce.Do(func() {
		kafkaSingleton = &KafkaResource{}
	})
	return kafkaSingleton
}

// MustOpen 初始化Kafka客户端；仅在kafka.enabled时生效
func (r *KafkaResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before KafkaResource")
	}
	if !cfg.Kafka.Enabled {
		logger.Infof("Kafka resource skipped enabled=false")
		return
	}

	kafka.DefaultClient().MustOpen()
	r.opened = true
}

// Close 关闭Kafka客户端
func (r *KafkaResource) Close() {
	if r.opened {
		kafka.DefaultClient().Close()
	}
}

// KafkaResourcePlugin Kafka资源插件
type KafkaResourcePlugin struct{}

func (p *KafkaResourcePlugin) Name() string {
	return "kafkaResource"
}

func (p *KafkaResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultKafkaResource()
}
