package resource

import "video-aggregation-service/pkg/manager"

func init() {
	// 注册资源插件
	manager.RegisterResourcePlugin(&MysqlResourcePlugin{})
	manager.RegisterResourcePlugin(&RedisResourcePlugin{})
	manager.RegisterResourcePlugin(&MinioResourcePlugin{})
	manager.RegisterResourcePlugin(&KafkaResourcePlugin{})
}
