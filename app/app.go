package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	adapterhttp "video-aggregation-service/ddd/adapter/http"
	app "video-aggregation-service/ddd/application/app"
	"video-aggregation-service/pkg/config"
	"video-aggregation-service/pkg/logger"
	"video-aggregation-service/pkg/manager"
	"video-aggregation-service/pkg/registry"

	// 导入资源包以触发init函数
	_ "video-aggregation-service/internal/resource"
)

func Run() {
	// 先使用标准输出确保能看到日志
	fmt.Println("[STARTUP] Starting video aggregation service...")

	// 加载配置
	fmt.Println("[STARTUP] Loading config file...")
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// 设置全局配置（必须在资源管理器初始化之前）
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	// 立即初始化日志服务
	fmt.Println("[STARTUP] Initializing logger...")
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	fmt.Println("[STARTUP] Logger initialized")

	logger.Debug("Logger initialized", map[string]interface{}{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
		"output": cfg.Log.Output,
	})

	logger.Infof("Video aggregation service starting storage_backend=%s metadata_backend=%s",
		cfg.Storage.Backend, cfg.Metadata.Backend)

	// 检查FFmpeg是否可用，直接在启动阶段失败
	ffmpegBin := cfg.Encode.BinaryPath
	if strings.TrimSpace(ffmpegBin) == "" {
		ffmpegBin = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set encode.binary_path binary=%s error=%s", ffmpegBin, err.Error()))
	}
	if _, err := exec.LookPath(cfg.Encode.ProbeBinaryPath); err != nil {
		logger.Warnf("ffprobe binary not found, media probing will use file size only binary=%s", cfg.Encode.ProbeBinaryPath)
	}

	// 资源管理器初始化
	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	// 初始化应用服务
	logger.Infof("Initializing video app...")
	videoAppService := app.DefaultVideoApp()
	logger.Infof("Video app initialized")

	// 创建Gin引擎
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	router := adapterhttp.NewRouter(videoAppService, cfg.Storage.ChunkSize)
	router.SetupMiddleware(engine)
	router.SetupRoutes(engine)
	logger.Infof("Routes registered")

	// 启动HTTP服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()

	logger.Infof("HTTP server started addr=%s health_url=%s", addr,
		fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port))

	// 服务注册（可选）
	var serviceRegistry *registry.ServiceRegistry
	if cfg.ServiceRegistry.Enabled {
		serviceRegistry, err = registry.NewServiceRegistry(cfg.ServiceRegistry, addr)
		if err != nil {
			logger.Errorf("Failed to create service registry error=%v", err)
		} else if err := serviceRegistry.Register(); err != nil {
			logger.Errorf("Failed to register service error=%v", err)
		}
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			logger.Errorf("Failed to deregister service error=%v", err)
		}
	}

	// 设置5秒超时
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")

	if logService != nil {
		logService.Close()
	}

	fmt.Println("[SHUTDOWN] Video aggregation service exited safely")
}

// resolveConfigPath 根据环境选择配置文件，支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
