package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"video-aggregation-service/ddd/domain/entity"
	"video-aggregation-service/ddd/domain/repo"
	"video-aggregation-service/ddd/domain/vo"
	"video-aggregation-service/pkg/logger"
)

const (
	videoKeyPrefix  = "video:"
	allIndexKey     = "videos:all"
	statusKeyPrefix = "videos:status:"
	sourceKeyPrefix = "videos:source:"
)

// videoRecord 视频元数据的Redis序列化形式
type videoRecord struct {
	VideoID          string         `json:"video_id"`
	SourceVideoID    string         `json:"source_video_id,omitempty"`
	Filename         string         `json:"filename"`
	StorageKey       string         `json:"storage_key"`
	AccessLink       string         `json:"access_link"`
	Status           string         `json:"status"`
	FileSizeBytes    int64          `json:"file_size_bytes"`
	DurationSeconds  float64        `json:"duration_seconds"`
	Resolution       string         `json:"resolution"`
	DetectedLanguage string         `json:"detected_language,omitempty"`
	DetectedObjects  map[string]int `json:"detected_objects,omitempty"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// RedisVideoRepository 基于Redis的视频元数据仓储实现。
// 记录本体以JSON存储，videos:all与videos:status:*为按创建时间打分的ZSET索引。
type RedisVideoRepository struct {
	client *redis.Client
}

// NewRedisVideoRepository 创建Redis视频仓储实例
func NewRedisVideoRepository(client *redis.Client) repo.VideoRepository {
	return &RedisVideoRepository{client: client}
}

// Create 创建记录并维护索引
func (r *RedisVideoRepository) Create(ctx context.Context, video *entity.VideoEntity) error {
	rec := toRecord(video)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal video record failed: %w", err)
	}

	score := float64(rec.CreatedAt.UnixNano())
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, videoKeyPrefix+rec.VideoID, data, 0)
	pipe.ZAdd(ctx, allIndexKey, redis.Z{Score: score, Member: rec.VideoID})
	pipe.ZAdd(ctx, statusKeyPrefix+rec.Status, redis.Z{Score: score, Member: rec.VideoID})
	if rec.SourceVideoID != "" {
		pipe.Set(ctx, sourceKeyPrefix+rec.SourceVideoID, rec.VideoID, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Errorf("Error creating video record in redis %v", err)
		return err
	}
	return nil
}

// GetByID 按记录ID查询，不存在返回 nil, nil
func (r *RedisVideoRepository) GetByID(ctx context.Context, id string) (*entity.VideoEntity, error) {
	data, err := r.client.Get(ctx, videoKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return unmarshalRecord(data)
}

// GetBySourceID 按上游视频ID查询，不存在返回 nil, nil
func (r *RedisVideoRepository) GetBySourceID(ctx context.Context, sourceVideoID string) (*entity.VideoEntity, error) {
	id, err := r.client.Get(ctx, sourceKeyPrefix+sourceVideoID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update 应用补丁并返回更新后的记录，不存在返回 nil, nil
func (r *RedisVideoRepository) Update(ctx context.Context, id string, patch *repo.VideoPatch) (*entity.VideoEntity, error) {
	data, err := r.client.Get(ctx, videoKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec videoRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal video record failed: %w", err)
	}

	oldStatus := rec.Status
	applyPatch(&rec, patch)
	rec.UpdatedAt = time.Now()

	updated, err := json.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("marshal video record failed: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, videoKeyPrefix+id, updated, 0)
	if rec.Status != oldStatus {
		score := float64(rec.CreatedAt.UnixNano())
		pipe.ZRem(ctx, statusKeyPrefix+oldStatus, id)
		pipe.ZAdd(ctx, statusKeyPrefix+rec.Status, redis.Z{Score: score, Member: id})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Errorf("Error updating video record in redis %v", err)
		return nil, err
	}

	return toEntity(&rec), nil
}

// Delete 删除记录及其索引项，返回是否存在
func (r *RedisVideoRepository) Delete(ctx context.Context, id string) (bool, error) {
	data, err := r.client.Get(ctx, videoKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	var rec videoRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return false, fmt.Errorf("unmarshal video record failed: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, videoKeyPrefix+id)
	pipe.ZRem(ctx, allIndexKey, id)
	pipe.ZRem(ctx, statusKeyPrefix+rec.Status, id)
	if rec.SourceVideoID != "" {
		pipe.Del(ctx, sourceKeyPrefix+rec.SourceVideoID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Errorf("Error deleting video record in redis %v", err)
		return false, err
	}
	return true, nil
}

// ListByStatus 按状态索引倒序查询，status为nil时走全量索引
func (r *RedisVideoRepository) ListByStatus(ctx context.Context, status *vo.VideoStatus, limit int) ([]*entity.VideoEntity, error) {
	indexKey := allIndexKey
	if status != nil {
		indexKey = statusKeyPrefix + status.String()
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entity.VideoEntity{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, videoKeyPrefix+id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.VideoEntity, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// 索引项对应的记录已被删除，跳过
			continue
		}
		e, err := unmarshalRecord([]byte(s))
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// Ping 检查Redis连通性
func (r *RedisVideoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func toRecord(e *entity.VideoEntity) *videoRecord {
	return &videoRecord{
		VideoID:          e.ID(),
		SourceVideoID:    e.SourceVideoID(),
		Filename:         e.Filename(),
		StorageKey:       e.StorageKey(),
		AccessLink:       e.AccessLink(),
		Status:           e.Status().String(),
		FileSizeBytes:    e.FileSizeBytes(),
		DurationSeconds:  e.DurationSeconds(),
		Resolution:       e.Resolution(),
		DetectedLanguage: e.DetectedLanguage(),
		DetectedObjects:  e.DetectedObjects(),
		ErrorMessage:     e.ErrorMessage(),
		CreatedAt:        e.CreatedAt(),
		UpdatedAt:        e.UpdatedAt(),
	}
}

func toEntity(rec *videoRecord) *entity.VideoEntity {
	status := vo.VideoStatus(rec.Status)
	if !status.IsValid() {
		status = vo.VideoStatusPending
	}
	return entity.RebuildVideoEntity(
		rec.VideoID,
		rec.SourceVideoID,
		rec.Filename,
		rec.StorageKey,
		rec.AccessLink,
		status,
		rec.FileSizeBytes,
		rec.DurationSeconds,
		rec.Resolution,
		rec.DetectedLanguage,
		rec.DetectedObjects,
		rec.ErrorMessage,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
}

func unmarshalRecord(data []byte) (*entity.VideoEntity, error) {
	var rec videoRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal video record failed: %w", err)
	}
	return toEntity(&rec), nil
}

func applyPatch(rec *videoRecord, patch *repo.VideoPatch) {
	if patch == nil {
		return
	}
	if patch.Status != nil {
		rec.Status = patch.Status.String()
	}
	if patch.AccessLink != nil {
		rec.AccessLink = *patch.AccessLink
	}
	if patch.FileSizeBytes != nil {
		rec.FileSizeBytes = *patch.FileSizeBytes
	}
	if patch.DurationSeconds != nil {
		rec.DurationSeconds = *patch.DurationSeconds
	}
	if patch.Resolution != nil {
		rec.Resolution = *patch.Resolution
	}
	if patch.DetectedLanguage != nil {
		rec.DetectedLanguage = *patch.DetectedLanguage
	}
	if patch.DetectedObjects != nil {
		rec.DetectedObjects = patch.DetectedObjects
	}
	if patch.ErrorMessage != nil {
		rec.ErrorMessage = *patch.ErrorMessage
	}
}
