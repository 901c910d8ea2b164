package dto

import (
	"io"
	"time"

	"video-aggregation-service/ddd/domain/entity"
	"video-aggregation-service/ddd/domain/service"
)

// VideoDTO 视频元数据对外表示
type VideoDTO struct {
	VideoID          string         `json:"video_id"`
	SourceVideoID    string         `json:"source_video_id,omitempty"`
	Filename         string         `json:"filename"`
	StorageKey       string         `json:"storage_key"`
	Link             string         `json:"link"`
	Status           string         `json:"status"`
	FileSize         int64          `json:"file_size"`
	Duration         float64        `json:"duration"`
	Resolution       string         `json:"resolution,omitempty"`
	DetectedLanguage string         `json:"detected_language,omitempty"`
	DetectedObjects  map[string]int `json:"detected_objects,omitempty"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewVideoDto 由实体构造DTO
func NewVideoDto(e *entity.VideoEntity) *VideoDTO {
	return &VideoDTO{
		VideoID:          e.ID(),
		SourceVideoID:    e.SourceVideoID(),
		Filename:         e.Filename(),
		StorageKey:       e.StorageKey(),
		Link:             e.AccessLink(),
		Status:           e.Status().String(),
		FileSize:         e.FileSizeBytes(),
		Duration:         e.DurationSeconds(),
		Resolution:       e.Resolution(),
		DetectedLanguage: e.DetectedLanguage(),
		DetectedObjects:  e.DetectedObjects(),
		ErrorMessage:     e.ErrorMessage(),
		CreatedAt:        e.CreatedAt(),
		UpdatedAt:        e.UpdatedAt(),
	}
}

// ProcessVideoMetadata 处理结果中的媒体属性
type ProcessVideoMetadata struct {
	OriginalFilename string  `json:"original_filename"`
	FinalFilename    string  `json:"final_filename"`
	Resolution       string  `json:"resolution"`
	Duration         float64 `json:"duration"`
	FileSize         int64   `json:"file_size"`
}

// ProcessVideoResult 视频处理响应
type ProcessVideoResult struct {
	Status        string               `json:"status"`
	JobID         string               `json:"job_id"`
	VideoID       string               `json:"video_id"`
	SourceVideoID string               `json:"source_video_id,omitempty"`
	Message       string               `json:"message"`
	StreamingURL  string               `json:"streaming_url"`
	Metadata      ProcessVideoMetadata `json:"metadata"`
}

// VideoListDTO 列表查询响应
type VideoListDTO struct {
	Total  int         `json:"total"`
	Videos []*VideoDTO `json:"videos"`
}

// HealthDTO 健康检查响应
type HealthDTO struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Version          string `json:"version"`
	StorageAvailable bool   `json:"storage_available"`
	MetadataBackend  string `json:"metadata_backend"`
	MetadataHealthy  bool   `json:"metadata_connected"`
}

// StreamPayload 一次流式响应的载荷。
// RedirectURL非空时直接重定向，否则按Plan读取Body。
type StreamPayload struct {
	Plan        *service.StreamPlan
	Body        io.ReadCloser
	ContentType string
	RedirectURL string
}
