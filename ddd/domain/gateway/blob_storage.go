package gateway

import (
	"context"
	"io"
	"time"
)

// BlobStorage 视频资产存储网关，屏蔽本地文件系统与对象存储的差异。
type BlobStorage interface {
	// Put 上传本地文件，返回后端定位符
	Put(ctx context.Context, localPath, key, contentType string) (string, error)
	// Get 下载对象到本地文件
	Get(ctx context.Context, key, localPath string) error
	// Exists 检查对象是否存在
	Exists(ctx context.Context, key string) (bool, error)
	// Size 获取对象大小，不存在时ok为false
	Size(ctx context.Context, key string) (size int64, ok bool, err error)
	// Delete 删除对象，返回对象是否存在
	Delete(ctx context.Context, key string) (bool, error)
	// ReadRange 读取对象的[start, start+length)字节，调用方负责Close
	ReadRange(ctx context.Context, key string, start, length int64) (io.ReadCloser, error)
	// SupportsPresign 后端是否支持临时签名链接
	SupportsPresign() bool
	// PresignedURL 生成带过期时间的直读链接；不支持的后端返回空串
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Ping 检查后端连通性
	Ping(ctx context.Context) error
}
