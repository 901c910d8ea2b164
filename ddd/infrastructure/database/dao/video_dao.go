package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"video-aggregation-service/ddd/infrastructure/database/po"
	"video-aggregation-service/pkg/logger"
)

// VideoDAO 视频元数据数据访问对象
type VideoDAO struct {
	db *gorm.DB
}

// NewVideoDAO 创建视频DAO实例
func NewVideoDAO(db *gorm.DB) *VideoDAO {
	return &VideoDAO{db: db}
}

// Create 创建视频记录
func (d *VideoDAO) Create(ctx context.Context, videoPo *po.Video) error {
	err := d.db.WithContext(ctx).Model(&po.Video{}).Create(videoPo).Error
	if err != nil {
		logger.Errorf("Error creating video record %v", err)
		return err
	}
	return nil
}

// FindByVideoID 根据记录ID查询
func (d *VideoDAO) FindByVideoID(ctx context.Context, videoID string) (*po.Video, error) {
	var video po.Video
	if err := d.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// FindBySourceVideoID 根据上游视频ID查询
func (d *VideoDAO) FindBySourceVideoID(ctx context.Context, sourceVideoID string) (*po.Video, error) {
	var video po.Video
	if err := d.db.WithContext(ctx).
		Where("source_video_id = ?", sourceVideoID).
		Order("created_at DESC").
		First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// UpdateFields 按字段集合更新记录，返回受影响行数
func (d *VideoDAO) UpdateFields(ctx context.Context, videoID string, fields map[string]interface{}) (int64, error) {
	fields["updated_at"] = time.Now()
	result := d.db.WithContext(ctx).
		Model(&po.Video{}).
		Where("video_id = ?", videoID).
		Updates(fields)
	if result.Error != nil {
		logger.Errorf("Error updating video record %v", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete 删除记录，返回受影响行数
func (d *VideoDAO) Delete(ctx context.Context, videoID string) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&po.Video{})
	if result.Error != nil {
		logger.Errorf("Error deleting video record %v", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// QueryByStatus 按状态查询，status为空查询全部，按创建时间倒序
func (d *VideoDAO) QueryByStatus(ctx context.Context, status string, limit int) ([]*po.Video, error) {
	var videos []*po.Video
	query := d.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&videos).Error; err != nil {
		logger.Errorf("Error query videos by status %v", err)
		return nil, err
	}
	return videos, nil
}

// Ping 检查数据库连通性
func (d *VideoDAO) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate 建表
func (d *VideoDAO) AutoMigrate() error {
	return d.db.AutoMigrate(&po.Video{})
}
