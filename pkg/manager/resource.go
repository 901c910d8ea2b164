package manager

import (
	"sync"

	"video-aggregation-service/pkg/logger"
)

// Resource 进程级共享资源（数据库连接、存储客户端等）
type Resource interface {
	// MustOpen 初始化资源，失败直接panic终止启动
	MustOpen()
	// Close 释放资源
	Close()
}

// ResourcePlugin 资源插件，负责创建资源实例
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

var (
	pluginMu  sync.Mutex
	plugins   []ResourcePlugin
	resources []Resource
)

// RegisterResourcePlugin 注册资源插件（在包init中调用）
func RegisterResourcePlugin(p ResourcePlugin) {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	plugins = append(plugins, p)
}

// MustInitResources 初始化所有已注册资源
func MustInitResources() {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	for _, p := range plugins {
		r := p.MustCreateResource()
		r.MustOpen()
		resources = append(resources, r)
		logger.Infof("Resource opened name=%s", p.Name())
	}
}

// CloseResources 逆序关闭所有资源
func CloseResources() {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	for i := len(resources) - 1; i >= 0; i-- {
		resources[i].Close()
	}
	resources = nil
}
