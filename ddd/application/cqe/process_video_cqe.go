package cqe

import (
	"encoding/json"
	"mime/multipart"

	"video-aggregation-service/pkg/errno"

	"video-aggregation-service/ddd/domain/vo"
)

// ProcessVideoReq 视频处理请求（multipart表单）
type ProcessVideoReq struct {
	Video         *multipart.FileHeader `form:"video"`    // 视频文件（必填）
	SrtFile       *multipart.FileHeader `form:"srt_file"` // SRT字幕文件，内容为空表示跳过烧录
	Resolution    string                `form:"resolution"`
	CrfValue      *int                  `form:"crf_value"`
	SourceVideoID string                `form:"source_video_id"`

	// 上游增强元数据（可选），原样存储
	DetectedLanguage string `form:"detected_language"`
	DetectedObjects  string `form:"detected_objects"` // JSON对象，label -> count

	detectedObjects map[string]int
}

func (req *ProcessVideoReq) Validate() error {
	if req.Video == nil {
		return errno.ErrVideoFileRequired
	}
	if req.Resolution == "" {
		req.Resolution = vo.DefaultResolution
	}
	if req.CrfValue == nil {
		crf := vo.DefaultCRF
		req.CrfValue = &crf
	}
	if *req.CrfValue < vo.MinCRF || *req.CrfValue > vo.MaxCRF {
		return errno.ErrCrfOutOfRange
	}
	if req.DetectedObjects != "" {
		objects := make(map[string]int)
		if err := json.Unmarshal([]byte(req.DetectedObjects), &objects); err != nil {
			return errno.NewBizError(errno.ErrInvalidParam, err)
		}
		req.detectedObjects = objects
	}
	return nil
}

// CRF 校验后的质量参数
func (req *ProcessVideoReq) CRF() int {
	if req.CrfValue == nil {
		return vo.DefaultCRF
	}
	return *req.CrfValue
}

// ObjectCounts 解析后的目标检测计数
func (req *ProcessVideoReq) ObjectCounts() map[string]int {
	return req.detectedObjects
}

// GetVideoReq 按记录ID查询请求
type GetVideoReq struct {
	VideoID string `uri:"video_id" binding:"required"`
}

func (req *GetVideoReq) Validate() error {
	if req.VideoID == "" {
		return errno.ErrInvalidParam
	}
	return nil
}

// GetVideoBySourceReq 按上游视频ID查询请求
type GetVideoBySourceReq struct {
	SourceVideoID string `uri:"source_video_id" binding:"required"`
}

func (req *GetVideoBySourceReq) Validate() error {
	if req.SourceVideoID == "" {
		return errno.ErrInvalidParam
	}
	return nil
}

// ListVideosReq 列表查询请求
type ListVideosReq struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

func (req *ListVideosReq) Validate() error {
	if req.Status != "" && !vo.VideoStatus(req.Status).IsValid() {
		return errno.ErrInvalidStatus
	}
	if req.Limit <= 0 || req.Limit > 1000 {
		req.Limit = 100
	}
	return nil
}

// StatusFilter 解析后的状态过滤条件，未指定返回nil
func (req *ListVideosReq) StatusFilter() *vo.VideoStatus {
	if req.Status == "" {
		return nil
	}
	status := vo.VideoStatus(req.Status)
	return &status
}

// DeleteVideoReq 删除请求
type DeleteVideoReq struct {
	VideoID string `uri:"video_id" binding:"required"`
}

func (req *DeleteVideoReq) Validate() error {
	if req.VideoID == "" {
		return errno.ErrInvalidParam
	}
	return nil
}

// StreamVideoReq 视频流请求
type StreamVideoReq struct {
	Filename    string `uri:"filename" binding:"required"`
	RangeHeader string `header:"Range"`
}

func (req *StreamVideoReq) Validate() error {
	if req.Filename == "" {
		return errno.ErrInvalidParam
	}
	return nil
}
