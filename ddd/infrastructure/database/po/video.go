package po

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Video 视频元数据持久化对象
type Video struct {
	ID               uint        `gorm:"primaryKey;autoIncrement" json:"-"`
	VideoID          string      `gorm:"column:video_id;uniqueIndex;size:36;not null" json:"video_id"`
	SourceVideoID    string      `gorm:"column:source_video_id;index;size:64" json:"source_video_id"`
	Filename         string      `gorm:"size:255" json:"filename"`
	StorageKey       string      `gorm:"column:storage_key;size:512" json:"storage_key"`
	AccessLink       string      `gorm:"column:access_link;size:1024" json:"access_link"`
	Status           string      `gorm:"index;size:20;not null" json:"status"`
	FileSizeBytes    int64       `gorm:"column:file_size_bytes" json:"file_size_bytes"`
	DurationSeconds  float64     `gorm:"column:duration_seconds" json:"duration_seconds"`
	Resolution       string      `gorm:"size:50" json:"resolution"`
	DetectedLanguage string      `gorm:"column:detected_language;size:50" json:"detected_language"`
	DetectedObjects  JSONIntMap  `gorm:"column:detected_objects;type:json" json:"detected_objects"`
	ErrorMessage     string      `gorm:"column:error_message;type:text" json:"error_message"`
	CreatedAt        time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}

// JSONIntMap label->count映射的JSON列类型
type JSONIntMap map[string]int

// Value 实现driver.Valuer
func (m JSONIntMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan 实现sql.Scanner
func (m *JSONIntMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONIntMap: %T", value)
	}
	return json.Unmarshal(data, m)
}
