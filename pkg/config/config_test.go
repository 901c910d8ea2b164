package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "0.0.0.0"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8084 {
		t.Errorf("server port default = %d", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("storage backend default = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.ChunkSize != 1024*1024 {
		t.Errorf("chunk size default = %d", cfg.Storage.ChunkSize)
	}
	if cfg.Storage.PresignTTL != time.Hour {
		t.Errorf("presign ttl default = %s", cfg.Storage.PresignTTL)
	}
	if cfg.Metadata.Backend != "mysql" {
		t.Errorf("metadata backend default = %q", cfg.Metadata.Backend)
	}
	if cfg.Upload.MaxSize != 500*1024*1024 {
		t.Errorf("upload max size default = %d", cfg.Upload.MaxSize)
	}
	if cfg.Encode.Codec != "libx264" || cfg.Encode.Preset != "medium" {
		t.Errorf("encode defaults = %+v", cfg.Encode)
	}
	if cfg.Encode.Timeout != time.Hour {
		t.Errorf("encode timeout default = %s", cfg.Encode.Timeout)
	}
	if cfg.Kafka.Topics.VideoLifecycle != "video.lifecycle" {
		t.Errorf("kafka topic default = %q", cfg.Kafka.Topics.VideoLifecycle)
	}
}

func TestLoadReadsValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: "release"
storage:
  backend: "minio"
  chunk_size: 65536
metadata:
  backend: "redis"
database:
  host: "db.internal"
  port: 3307
  username: "svc"
  password: "secret"
  database: "videos"
redis:
  host: "cache.internal"
  port: 6380
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 || cfg.Server.Mode != "release" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Storage.Backend != "minio" || cfg.Storage.ChunkSize != 65536 {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Metadata.Backend != "redis" {
		t.Errorf("metadata backend = %q", cfg.Metadata.Backend)
	}

	wantDSN := "svc:secret@tcp(db.internal:3307)/videos?charset=utf8mb4&parseTime=True&loc=Local"
	if got := cfg.Database.GetDSN(); got != wantDSN {
		t.Errorf("dsn = %q, want %q", got, wantDSN)
	}
	if got := cfg.Redis.GetRedisAddr(); got != "cache.internal:6380" {
		t.Errorf("redis addr = %q", got)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestMinioKeyAliases(t *testing.T) {
	path := writeConfig(t, `
minio:
  access_key: "ak"
  secret_key: "sk"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Minio.AccessKeyID != "ak" || cfg.Minio.SecretAccessKey != "sk" {
		t.Errorf("minio keys = %+v", cfg.Minio)
	}
}
