package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"video-aggregation-service/ddd/application/app"
	"video-aggregation-service/ddd/application/cqe"
	"video-aggregation-service/pkg/logger"
	"video-aggregation-service/pkg/restapi"
)

// StreamController 视频字节流接口，支持HTTP Range请求
type StreamController struct {
	videoApp  app.VideoApp
	chunkSize int
}

// NewStreamController 创建流控制器
func NewStreamController(videoApp app.VideoApp, chunkSize int) *StreamController {
	if chunkSize <= 0 {
		chunkSize = 1024 * 1024
	}
	return &StreamController{videoApp: videoApp, chunkSize: chunkSize}
}

// StreamVideo 流式返回存储对象。
// 无Range头返回200全量；合法Range返回206；非法或越界返回416。
func (c *StreamController) StreamVideo(ctx *gin.Context) {
	var req cqe.StreamVideoReq
	if err := ctx.ShouldBindUri(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	req.RangeHeader = ctx.GetHeader("Range")

	payload, err := c.videoApp.OpenStream(ctx.Request.Context(), req.Filename, req.RangeHeader)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if payload.RedirectURL != "" {
		ctx.Redirect(http.StatusFound, payload.RedirectURL)
		return
	}
	defer payload.Body.Close()

	plan := payload.Plan
	ctx.Header("Accept-Ranges", "bytes")
	ctx.Header("Content-Type", payload.ContentType)
	ctx.Header("Content-Length", strconv.FormatInt(plan.Length, 10))

	status := http.StatusOK
	if plan.Partial {
		status = http.StatusPartialContent
		ctx.Header("Content-Range", plan.ContentRange)
	}
	ctx.Status(status)

	// 分块写出，避免大对象整体驻留内存
	buf := make([]byte, c.chunkSize)
	if _, err := io.CopyBuffer(ctx.Writer, payload.Body, buf); err != nil {
		// 播放器中断连接很常见，记录后直接返回
		logger.Debugf("Stream interrupted key=%s error=%v", req.Filename, err)
	}
}
