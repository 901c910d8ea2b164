package http

import (
	"github.com/gin-gonic/gin"

	"video-aggregation-service/ddd/application/app"
	"video-aggregation-service/ddd/application/cqe"
	"video-aggregation-service/pkg/restapi"
)

// VideoController 视频处理与元数据查询接口
type VideoController struct {
	videoApp app.VideoApp
}

// NewVideoController 创建视频控制器
func NewVideoController(videoApp app.VideoApp) *VideoController {
	return &VideoController{videoApp: videoApp}
}

// ProcessVideo 处理上传视频：烧录字幕、压缩、持久化并返回播放链接
func (c *VideoController) ProcessVideo(ctx *gin.Context) {
	var req cqe.ProcessVideoReq
	if err := ctx.ShouldBind(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	result, err := c.videoApp.ProcessVideo(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, result)
}

// GetVideo 按记录ID查询视频元数据
func (c *VideoController) GetVideo(ctx *gin.Context) {
	var req cqe.GetVideoReq
	if err := ctx.ShouldBindUri(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	video, err := c.videoApp.GetVideo(ctx.Request.Context(), req.VideoID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, video)
}

// GetVideoBySource 按上游视频ID查询视频元数据
func (c *VideoController) GetVideoBySource(ctx *gin.Context) {
	var req cqe.GetVideoBySourceReq
	if err := ctx.ShouldBindUri(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	video, err := c.videoApp.GetVideoBySource(ctx.Request.Context(), req.SourceVideoID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, video)
}

// ListVideos 按状态过滤查询视频列表
func (c *VideoController) ListVideos(ctx *gin.Context) {
	var req cqe.ListVideosReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	list, err := c.videoApp.ListVideos(ctx.Request.Context(), req.StatusFilter(), req.Limit)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, list)
}

// DeleteVideo 删除视频记录及其存储对象
func (c *VideoController) DeleteVideo(ctx *gin.Context) {
	var req cqe.DeleteVideoReq
	if err := ctx.ShouldBindUri(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if err := c.videoApp.DeleteVideo(ctx.Request.Context(), req.VideoID); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"message": "Video " + req.VideoID + " deleted successfully"})
}

// Health 健康检查
func (c *VideoController) Health(ctx *gin.Context) {
	ctx.JSON(200, c.videoApp.Health(ctx.Request.Context()))
}
