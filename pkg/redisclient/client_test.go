package redisclient

import (
	"testing"
	"time"

	"video-aggregation-service/pkg/config"
)

func TestBuildOptionsAppliesDefaults(t *testing.T) {
	cfg := config.RedisConfig{Host: "cache.internal", Port: 6380}

	opts := buildOptions(cfg)
	if opts.Addr != "cache.internal:6380" {
		t.Errorf("addr = %q", opts.Addr)
	}
	if opts.DialTimeout != defaultDialTimeout {
		t.Errorf("dial timeout = %s, want %s", opts.DialTimeout, defaultDialTimeout)
	}
	if opts.ReadTimeout != defaultReadTimeout || opts.WriteTimeout != defaultWriteTimeout {
		t.Errorf("timeouts = %s/%s", opts.ReadTimeout, opts.WriteTimeout)
	}
	if opts.TLSConfig != nil {
		t.Error("TLS must stay off unless enabled")
	}
}

func TestBuildOptionsReadsConfig(t *testing.T) {
	cfg := config.RedisConfig{
		Host:         "cache.internal",
		Port:         6379,
		Password:     "secret",
		DB:           2,
		PoolSize:     40,
		MinIdleConns: 5,
		DialTimeout:  time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		EnableTLS:    true,
	}

	opts := buildOptions(cfg)
	if opts.Password != "secret" || opts.DB != 2 {
		t.Errorf("auth = %q/%d", opts.Password, opts.DB)
	}
	if opts.PoolSize != 40 || opts.MinIdleConns != 5 {
		t.Errorf("pool = %d/%d", opts.PoolSize, opts.MinIdleConns)
	}
	if opts.DialTimeout != time.Second {
		t.Errorf("dial timeout = %s", opts.DialTimeout)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLS config missing")
	}
}
