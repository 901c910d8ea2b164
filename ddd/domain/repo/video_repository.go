package repo

import (
	"context"

	"video-aggregation-service/ddd/domain/entity"
	"video-aggregation-service/ddd/domain/vo"
)

// VideoPatch 部分更新载荷，仅应用非nil字段
type VideoPatch struct {
	Status           *vo.VideoStatus
	AccessLink       *string
	FileSizeBytes    *int64
	DurationSeconds  *float64
	Resolution       *string
	DetectedLanguage *string
	DetectedObjects  map[string]int
	ErrorMessage     *string
}

// VideoRepository 视频元数据仓储。
// 所有按ID操作对不存在的记录统一返回"缺失"值（nil或false），不作为错误。
type VideoRepository interface {
	// Create 创建记录
	Create(ctx context.Context, video *entity.VideoEntity) error
	// GetByID 按记录ID查询，不存在返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.VideoEntity, error)
	// GetBySourceID 按上游视频ID查询，不存在返回 nil, nil
	GetBySourceID(ctx context.Context, sourceVideoID string) (*entity.VideoEntity, error)
	// Update 应用补丁并返回更新后的记录，不存在返回 nil, nil
	Update(ctx context.Context, id string, patch *VideoPatch) (*entity.VideoEntity, error)
	// Delete 删除记录，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)
	// ListByStatus 按状态过滤查询，status为nil时返回全部，按创建时间倒序
	ListByStatus(ctx context.Context, status *vo.VideoStatus, limit int) ([]*entity.VideoEntity, error)
	// Ping 检查后端连通性
	Ping(ctx context.Context) error
}
