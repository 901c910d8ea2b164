package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"video-aggregation-service/ddd/domain/entity"
	"video-aggregation-service/ddd/domain/repo"
	"video-aggregation-service/ddd/domain/vo"
	"video-aggregation-service/ddd/infrastructure/database/convertor"
	"video-aggregation-service/ddd/infrastructure/database/dao"
	"video-aggregation-service/ddd/infrastructure/database/po"
)

// VideoRepositoryImpl 基于MySQL的视频元数据仓储实现
type VideoRepositoryImpl struct {
	videoDAO  *dao.VideoDAO
	convertor *convertor.VideoConvertor
}

// NewVideoRepository 创建视频仓储实例
func NewVideoRepository(db *gorm.DB) repo.VideoRepository {
	return &VideoRepositoryImpl{
		videoDAO:  dao.NewVideoDAO(db),
		convertor: convertor.NewVideoConvertor(),
	}
}

// Create 创建记录
func (r *VideoRepositoryImpl) Create(ctx context.Context, video *entity.VideoEntity) error {
	return r.videoDAO.Create(ctx, r.convertor.ToPO(video))
}

// GetByID 按记录ID查询，不存在返回 nil, nil
func (r *VideoRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.VideoEntity, error) {
	videoPo, err := r.videoDAO.FindByVideoID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(videoPo), nil
}

// GetBySourceID 按上游视频ID查询，不存在返回 nil, nil
func (r *VideoRepositoryImpl) GetBySourceID(ctx context.Context, sourceVideoID string) (*entity.VideoEntity, error) {
	videoPo, err := r.videoDAO.FindBySourceVideoID(ctx, sourceVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.convertor.ToEntity(videoPo), nil
}

// Update 应用补丁并返回更新后的记录，不存在返回 nil, nil
func (r *VideoRepositoryImpl) Update(ctx context.Context, id string, patch *repo.VideoPatch) (*entity.VideoEntity, error) {
	fields := buildUpdateFields(patch)
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	// RowsAffected为0可能是记录不存在，也可能是值未变化，统一以回查结果为准
	if _, err := r.videoDAO.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete 删除记录，返回是否存在
func (r *VideoRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := r.videoDAO.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListByStatus 按状态过滤查询，status为nil时返回全部
func (r *VideoRepositoryImpl) ListByStatus(ctx context.Context, status *vo.VideoStatus, limit int) ([]*entity.VideoEntity, error) {
	statusStr := ""
	if status != nil {
		statusStr = status.String()
	}
	poList, err := r.videoDAO.QueryByStatus(ctx, statusStr, limit)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntityList(poList), nil
}

// Ping 检查数据库连通性
func (r *VideoRepositoryImpl) Ping(ctx context.Context) error {
	return r.videoDAO.Ping(ctx)
}

// buildUpdateFields 将补丁的非nil字段映射为列更新集合
func buildUpdateFields(patch *repo.VideoPatch) map[string]interface{} {
	fields := make(map[string]interface{})
	if patch == nil {
		return fields
	}
	if patch.Status != nil {
		fields["status"] = patch.Status.String()
	}
	if patch.AccessLink != nil {
		fields["access_link"] = *patch.AccessLink
	}
	if patch.FileSizeBytes != nil {
		fields["file_size_bytes"] = *patch.FileSizeBytes
	}
	if patch.DurationSeconds != nil {
		fields["duration_seconds"] = *patch.DurationSeconds
	}
	if patch.Resolution != nil {
		fields["resolution"] = *patch.Resolution
	}
	if patch.DetectedLanguage != nil {
		fields["detected_language"] = *patch.DetectedLanguage
	}
	if patch.DetectedObjects != nil {
		fields["detected_objects"] = po.JSONIntMap(patch.DetectedObjects)
	}
	if patch.ErrorMessage != nil {
		fields["error_message"] = *patch.ErrorMessage
	}
	return fields
}
