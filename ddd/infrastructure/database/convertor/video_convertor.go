package convertor

import (
	"video-aggregation-service/ddd/domain/entity"
	"video-aggregation-service/ddd/domain/vo"
	"video-aggregation-service/ddd/infrastructure/database/po"
)

// VideoConvertor 视频实体与持久化对象转换器
type VideoConvertor struct{}

// NewVideoConvertor 创建视频转换器
func NewVideoConvertor() *VideoConvertor {
	return &VideoConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *VideoConvertor) ToEntity(p *po.Video) *entity.VideoEntity {
	status := vo.VideoStatus(p.Status)
	if !status.IsValid() {
		status = vo.VideoStatusPending
	}

	return entity.RebuildVideoEntity(
		p.VideoID,
		p.SourceVideoID,
		p.Filename,
		p.StorageKey,
		p.AccessLink,
		status,
		p.FileSizeBytes,
		p.DurationSeconds,
		p.Resolution,
		p.DetectedLanguage,
		map[string]int(p.DetectedObjects),
		p.ErrorMessage,
		p.CreatedAt,
		p.UpdatedAt,
	)
}

// ToPO 将Entity转换为PO
func (c *VideoConvertor) ToPO(e *entity.VideoEntity) *po.Video {
	return &po.Video{
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
		DetectedObjects:  po.JSONIntMap(e.DetectedObjects()),
		ErrorMessage:     e.ErrorMessage(),
		CreatedAt:        e.CreatedAt(),
		UpdatedAt:        e.UpdatedAt(),
	}
}

// ToEntityList 批量转换
func (c *VideoConvertor) ToEntityList(poList []*po.Video) []*entity.VideoEntity {
	entities := make([]*entity.VideoEntity, 0, len(poList))
	for _, p := range poList {
		entities = append(entities, c.ToEntity(p))
	}
	return entities
}
