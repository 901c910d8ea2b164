package http

import (
	"github.com/gin-gonic/gin"

	"video-aggregation-service/ddd/application/app"
	"video-aggregation-service/pkg/middleware"
)

// Router 路由配置
type Router struct {
	videoApp  app.VideoApp
	chunkSize int
}

// NewRouter 创建路由配置
func NewRouter(videoApp app.VideoApp, chunkSize int) *Router {
	return &Router{
		videoApp:  videoApp,
		chunkSize: chunkSize,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes(engine *gin.Engine) {
	videoController := NewVideoController(r.videoApp)
	streamController := NewStreamController(r.videoApp, r.chunkSize)

	api := engine.Group("/api")
	{
		api.POST("/process-video", videoController.ProcessVideo) // 处理上传视频

		api.GET("/video_storage/:filename", streamController.StreamVideo) // 视频流（支持Range）

		videos := api.Group("/videos")
		{
			videos.GET("", videoController.ListVideos)                                  // 视频列表
			videos.GET("/:video_id", videoController.GetVideo)                          // 视频详情
			videos.GET("/by-source/:source_video_id", videoController.GetVideoBySource) // 按上游ID查询
			videos.DELETE("/:video_id", videoController.DeleteVideo)                    // 删除视频
		}

		api.GET("/health", videoController.Health) // 健康检查
	}

	engine.GET("/health", videoController.Health)

	engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Video Aggregation Service API",
			"version": "1.0.0",
		})
	})
}

// SetupMiddleware 设置中间件
func (r *Router) SetupMiddleware(engine *gin.Engine) {
	// CORS中间件
	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Range, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestContextMiddleware())
}
