package entity

import (
	"time"

	"github.com/google/uuid"

	"video-aggregation-service/ddd/domain/vo"
)

// VideoEntity 视频元数据实体
type VideoEntity struct {
	id               string         // 记录ID，创建后不可变
	sourceVideoID    string         // 上游系统视频ID（可选）
	filename         string         // 原始文件名
	storageKey       string         // 存储后端定位键
	accessLink       string         // 可访问链接
	status           vo.VideoStatus // 生命周期状态
	fileSizeBytes    int64          // 文件大小（saved后有效）
	durationSeconds  float64        // 时长（saved后有效）
	resolution       string         // 最终分辨率（saved后有效）
	detectedLanguage string         // 上游提供的检测语言，原样存储
	detectedObjects  map[string]int // 上游提供的目标检测计数，原样存储
	errorMessage     string         // 失败信息（failed后有效）
	createdAt        time.Time
	updatedAt        time.Time
}

// NewVideoEntity 创建处理中的视频记录实体
func NewVideoEntity(filename, storageKey, accessLink, sourceVideoID string) *VideoEntity {
	now := time.Now()
	return &VideoEntity{
		id:            uuid.New().String(),
		sourceVideoID: sourceVideoID,
		filename:      filename,
		storageKey:    storageKey,
		accessLink:    accessLink,
		status:        vo.VideoStatusProcessing,
		createdAt:     now,
		updatedAt:     now,
	}
}

// RebuildVideoEntity 由持久化数据还原实体（仅供仓储层使用）
func RebuildVideoEntity(
	id, sourceVideoID, filename, storageKey, accessLink string,
	status vo.VideoStatus,
	fileSizeBytes int64,
	durationSeconds float64,
	resolution, detectedLanguage string,
	detectedObjects map[string]int,
	errorMessage string,
	createdAt, updatedAt time.Time,
) *VideoEntity {
	return &VideoEntity{
		id:               id,
		sourceVideoID:    sourceVideoID,
		filename:         filename,
		storageKey:       storageKey,
		accessLink:       accessLink,
		status:           status,
		fileSizeBytes:    fileSizeBytes,
		durationSeconds:  durationSeconds,
		resolution:       resolution,
		detectedLanguage: detectedLanguage,
		detectedObjects:  detectedObjects,
		errorMessage:     errorMessage,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Getters
func (v *VideoEntity) ID() string                      { return v.id }
func (v *VideoEntity) SourceVideoID() string           { return v.sourceVideoID }
func (v *VideoEntity) Filename() string                { return v.filename }
func (v *VideoEntity) StorageKey() string              { return v.storageKey }
func (v *VideoEntity) AccessLink() string              { return v.accessLink }
func (v *VideoEntity) Status() vo.VideoStatus          { return v.status }
func (v *VideoEntity) FileSizeBytes() int64            { return v.fileSizeBytes }
func (v *VideoEntity) DurationSeconds() float64        { return v.durationSeconds }
func (v *VideoEntity) Resolution() string              { return v.resolution }
func (v *VideoEntity) DetectedLanguage() string        { return v.detectedLanguage }
func (v *VideoEntity) DetectedObjects() map[string]int { return v.detectedObjects }
func (v *VideoEntity) ErrorMessage() string            { return v.errorMessage }
func (v *VideoEntity) CreatedAt() time.Time            { return v.createdAt }
func (v *VideoEntity) UpdatedAt() time.Time            { return v.updatedAt }

// SetEnrichment 记录上游提供的增强元数据
func (v *VideoEntity) SetEnrichment(language string, objects map[string]int) {
	v.detectedLanguage = language
	v.detectedObjects = objects
	v.updatedAt = time.Now()
}

// MarkSaved 标记处理成功并记录探测到的最终属性
func (v *VideoEntity) MarkSaved(sizeBytes int64, durationSeconds float64, resolution, accessLink string) error {
	if !v.status.CanTransitionTo(vo.VideoStatusSaved) {
		return NewDomainError("cannot mark saved in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusSaved
	v.fileSizeBytes = sizeBytes
	v.durationSeconds = durationSeconds
	v.resolution = resolution
	if accessLink != "" {
		v.accessLink = accessLink
	}
	v.errorMessage = ""
	v.updatedAt = time.Now()
	return nil
}

// MarkFailed 标记处理失败并记录失败原因
func (v *VideoEntity) MarkFailed(message string) error {
	if !v.status.CanTransitionTo(vo.VideoStatusFailed) {
		return NewDomainError("cannot mark failed in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusFailed
	v.errorMessage = message
	v.updatedAt = time.Now()
	return nil
}
