package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"video-aggregation-service/ddd/domain/gateway"
	"video-aggregation-service/internal/resource"
	"video-aggregation-service/pkg/logger"
)

// MinioStorage MinIO存储实现
type MinioStorage struct {
	minioResource *resource.MinioResource
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(minioResource *resource.MinioResource) gateway.BlobStorage {
	return &MinioStorage{
		minioResource: minioResource,
	}
}

// Put 上传本地文件到MinIO，返回对象定位符
func (s *MinioStorage) Put(ctx context.Context, localPath, key, contentType string) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	file, err := os.Open(localPath)
	if err != nil {
		logger.Error("Failed to open local file", map[string]interface{}{
			"local_path": localPath,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("open local file failed: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("get file info failed: %w", err)
	}

	if contentType == "" {
		contentType = getContentTypeFromExtension(key)
	}

	_, err = client.PutObject(ctx, bucketName, key, file, fileInfo.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload file to MinIO", map[string]interface{}{
			"local_path": localPath,
			"object_key": key,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("upload file to minio failed: %w", err)
	}

	logger.Info("File uploaded to MinIO", map[string]interface{}{
		"object_key": key,
		"size":       fileInfo.Size(),
	})

	return fmt.Sprintf("s3://%s/%s", bucketName, key), nil
}

// Get 从MinIO下载对象到本地文件
func (s *MinioStorage) Get(ctx context.Context, key, localPath string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local directory failed: %w", err)
	}

	object, err := client.GetObject(ctx, bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get object from minio failed: %w", err)
	}
	defer object.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local file failed: %w", err)
	}
	defer localFile.Close()

	if _, err := io.Copy(localFile, object); err != nil {
		return fmt.Errorf("download object from minio failed: %w", err)
	}

	return nil
}

// Exists 检查对象是否存在
func (s *MinioStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Size(ctx, key)
	return ok, err
}

// Size 获取对象大小
func (s *MinioStorage) Size(ctx context.Context, key string) (int64, bool, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	stat, err := client.StatObject(ctx, bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("stat object failed: %w", err)
	}
	return stat.Size, true, nil
}

// Delete 删除对象
func (s *MinioStorage) Delete(ctx context.Context, key string) (bool, error) {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()
	if err := client.RemoveObject(ctx, bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("remove object failed: %w", err)
	}

	logger.Infof("Object deleted from MinIO object_key=%s", key)
	return true, nil
}

// ReadRange 读取对象字节区间，底层使用对象存储的原生Range读
func (s *MinioStorage) ReadRange(ctx context.Context, key string, start, length int64) (io.ReadCloser, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	opts := minio.GetObjectOptions{}
	// 空对象全量读的区间长度为0，SetRange(0, -1)非法，改走普通读取
	if length > 0 {
		if err := opts.SetRange(start, start+length-1); err != nil {
			return nil, fmt.Errorf("set range failed: %w", err)
		}
	}

	object, err := client.GetObject(ctx, bucketName, key, opts)
	if err != nil {
		return nil, fmt.Errorf("get object range failed: %w", err)
	}
	return object, nil
}

// SupportsPresign 对象存储支持临时签名链接
func (s *MinioStorage) SupportsPresign() bool {
	return true
}

// PresignedURL 生成带过期时间的直读链接
func (s *MinioStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	u, err := client.PresignedGetObject(ctx, bucketName, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object failed: %w", err)
	}
	return u.String(), nil
}

// Ping 检查桶可达性
func (s *MinioStorage) Ping(ctx context.Context) error {
	client := s.minioResource.GetClient()
	if client == nil {
		return fmt.Errorf("minio client not initialized")
	}
	exists, err := client.BucketExists(ctx, s.minioResource.GetBucketName())
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.minioResource.GetBucketName())
	}
	return nil
}

// getContentTypeFromExtension 根据文件扩展名获取内容类型
func getContentTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	case ".wmv":
		return "video/x-ms-wmv"
	case ".flv":
		return "video/x-flv"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	default:
		return "application/octet-stream"
	}
}
