package redisclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"video-aggregation-service/pkg/config"
)

// 连接参数缺省值，配置未给出时生效
const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Client 包装go-redis客户端，统一连接参数与生命周期
type Client struct {
	native *redis.Client
}

// New 按服务配置建立Redis连接，Ping通过后才返回
func New(cfg config.RedisConfig) (*Client, error) {
	cli := redis.NewClient(buildOptions(cfg))
	if err := cli.Ping(context.Background()).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", cfg.GetRedisAddr(), err)
	}
	return &Client{native: cli}, nil
}

// buildOptions 将服务的redis配置段翻译为go-redis选项。
// 零值字段交给go-redis自身的默认值，超时有本包兜底。
func buildOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  orDefault(cfg.DialTimeout, defaultDialTimeout),
		ReadTimeout:  orDefault(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDefault(cfg.WriteTimeout, defaultWriteTimeout),
	}
	if cfg.EnableTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// Raw 暴露底层go-redis客户端，供仓储层直接使用
func (c *Client) Raw() *redis.Client {
	return c.native
}

// Ping 探测连接可用性
func (c *Client) Ping(ctx context.Context) error {
	return c.native.Ping(ctx).Err()
}

// Close 关闭客户端并释放连接池
func (c *Client) Close() error {
	return c.native.Close()
}

func orDefault(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
