package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"video-aggregation-service/ddd/domain/gateway"
	"video-aggregation-service/pkg/logger"
)

// LocalStorage 本地文件系统存储实现。
// Range读通过seek加定长读实现，对象键映射为存储目录下的文件名。
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage 创建本地存储实例
func NewLocalStorage(baseDir string) (gateway.BlobStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory failed: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// resolve 将对象键映射为存储目录内的路径，拒绝目录逃逸
func (s *LocalStorage) resolve(key string) (string, error) {
	name := filepath.Base(filepath.Clean(key))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, name), nil
}

// Put 复制本地文件到存储目录
func (s *LocalStorage) Put(ctx context.Context, localPath, key, contentType string) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open local file failed: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create storage file failed: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("copy to storage failed: %w", err)
	}

	logger.Infof("File stored locally object_key=%s path=%s", key, dst)
	return dst, nil
}

// Get 复制存储文件到目标路径
func (s *LocalStorage) Get(ctx context.Context, key, localPath string) error {
	src, err := s.resolve(key)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open storage file failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local directory failed: %w", err)
	}
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local file failed: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy from storage failed: %w", err)
	}
	return nil
}

// Exists 检查对象是否存在
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Size(ctx, key)
	return ok, err
}

// Size 获取对象大小
func (s *LocalStorage) Size(ctx context.Context, key string) (int64, bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return 0, false, err
	}
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return st.Size(), true, nil
}

// Delete 删除对象
func (s *LocalStorage) Delete(ctx context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadRange 打开文件并定位到起始偏移，读取定长字节
func (s *LocalStorage) ReadRange(ctx context.Context, key string, start, length int64) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open storage file failed: %w", err)
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek failed: %w", err)
	}

	return &limitedFile{Reader: io.LimitReader(f, length), file: f}, nil
}

// SupportsPresign 文件系统不支持签名链接
func (s *LocalStorage) SupportsPresign() bool {
	return false
}

// PresignedURL 文件系统后端返回空串
func (s *LocalStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", nil
}

// Ping 检查存储目录可用性
func (s *LocalStorage) Ping(ctx context.Context) error {
	st, err := os.Stat(s.baseDir)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", s.baseDir)
	}
	return nil
}

// limitedFile 带底层文件句柄的定长读取器
type limitedFile struct {
	io.Reader
	file *os.File
}

func (l *limitedFile) Close() error {
	return l.file.Close()
}
