package app

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"video-aggregation-service/ddd/application/cqe"
	"video-aggregation-service/ddd/application/dto"
	"video-aggregation-service/ddd/domain/entity"
	"video-aggregation-service/ddd/domain/gateway"
	"video-aggregation-service/ddd/domain/port"
	"video-aggregation-service/ddd/domain/repo"
	"video-aggregation-service/ddd/domain/service"
	"video-aggregation-service/ddd/domain/vo"
	"video-aggregation-service/ddd/infrastructure/cache"
	"video-aggregation-service/ddd/infrastructure/database/persistence"
	"video-aggregation-service/ddd/infrastructure/executor"
	"video-aggregation-service/ddd/infrastructure/mq"
	"video-aggregation-service/ddd/infrastructure/storage"
	"video-aggregation-service/internal/resource"
	"video-aggregation-service/pkg/config"
	"video-aggregation-service/pkg/errno"
	"video-aggregation-service/pkg/logger"
)

const serviceVersion = "1.0.0"

var (
	singleVideoApp VideoApp
	onceVideoApp   sync.Once
)

type VideoApp interface {
	// ProcessVideo 执行完整的处理流水线：落盘、烧录、持久化、记账
	ProcessVideo(ctx context.Context, req *cqe.ProcessVideoReq) (*dto.ProcessVideoResult, error)
	// GetVideo 按记录ID查询元数据
	GetVideo(ctx context.Context, videoID string) (*dto.VideoDTO, error)
	// GetVideoBySource 按上游视频ID查询元数据
	GetVideoBySource(ctx context.Context, sourceVideoID string) (*dto.VideoDTO, error)
	// ListVideos 按状态过滤查询列表
	ListVideos(ctx context.Context, status *vo.VideoStatus, limit int) (*dto.VideoListDTO, error)
	// DeleteVideo 删除记录及其存储对象
	DeleteVideo(ctx context.Context, videoID string) error
	// OpenStream 解析Range头并打开对象字节流
	OpenStream(ctx context.Context, key, rangeHeader string) (*dto.StreamPayload, error)
	// Health 汇报各后端可用性
	Health(ctx context.Context) *dto.HealthDTO
}

type videoAppImpl struct {
	videoRepo repo.VideoRepository
	storage   gateway.BlobStorage
	encoder   port.Encoder
	prober    port.MediaProber
	streamSvc *service.StreamService
	publisher mq.EventPublisher
	cfg       *config.Config
}

func DefaultVideoApp() VideoApp {
	onceVideoApp.Do(func() {
		cfg := config.GetGlobalConfig()
		if cfg == nil {
			panic("global config not initialized before video app")
		}

		var videoRepo repo.VideoRepository
		switch cfg.Metadata.Backend {
		case "redis":
			videoRepo = cache.NewRedisVideoRepository(resource.DefaultRedisResource().Client())
		default:
			videoRepo = persistence.NewVideoRepository(resource.DefaultMysqlResource().MainDB())
		}

		var blobStorage gateway.BlobStorage
		switch cfg.Storage.Backend {
		case "minio":
			blobStorage = storage.NewMinioStorage(resource.DefaultMinioResource())
		default:
			local, err := storage.NewLocalStorage(cfg.Storage.LocalDir)
			if err != nil {
				panic("failed to init local storage: " + err.Error())
			}
			blobStorage = local
		}

		ffmpeg := executor.NewFFmpegEncoder(cfg)
		singleVideoApp = NewVideoAppWith(videoRepo, blobStorage, ffmpeg, ffmpeg, mq.NewEventPublisher(cfg), cfg)
	})
	return singleVideoApp
}

func NewVideoAppWith(
	videoRepo repo.VideoRepository,
	blobStorage gateway.BlobStorage,
	encoder port.Encoder,
	prober port.MediaProber,
	publisher mq.EventPublisher,
	cfg *config.Config,
) VideoApp {
	if publisher == nil {
		publisher = &mq.NoopEventPublisher{}
	}
	return &videoAppImpl{
		videoRepo: videoRepo,
		storage:   blobStorage,
		encoder:   encoder,
		prober:    prober,
		streamSvc: service.NewStreamService(),
		publisher: publisher,
		cfg:       cfg,
	}
}

func (a *videoAppImpl) ProcessVideo(ctx context.Context, req *cqe.ProcessVideoReq) (*dto.ProcessVideoResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params, err := vo.NewEncodeParams(req.Resolution, req.CRF())
	if err != nil {
		return nil, errno.NewBizError(errno.ErrCrfOutOfRange, err)
	}

	// 大小在落盘前校验，超限上传不写临时文件
	if req.Video.Size > a.cfg.Upload.MaxSize {
		return nil, errno.ErrUploadTooLarge
	}

	jobID := newJobID()
	logger.Infof("[%s] Starting video processing for %s", jobID, req.Video.Filename)

	tempDir := a.cfg.Storage.TempDir
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}

	originalPath := filepath.Join(tempDir, jobID+"_original.mp4")
	srtPath := filepath.Join(tempDir, jobID+".srt")
	burnedPath := filepath.Join(tempDir, jobID+"_burned.mp4")
	finalFilename := jobID + "_final.mp4"
	tempFiles := []string{originalPath, srtPath, burnedPath}

	if err := saveUpload(req.Video, originalPath); err != nil {
		cleanupFiles(tempFiles)
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}

	// 字幕内容为空时按无字幕处理
	subtitlePath := ""
	if req.SrtFile != nil {
		if err := saveUpload(req.SrtFile, srtPath); err != nil {
			cleanupFiles(tempFiles)
			return nil, errno.NewBizError(errno.ErrInternalServer, err)
		}
		if req.SrtFile.Size > 0 {
			subtitlePath = srtPath
		} else {
			logger.Infof("[%s] SRT file is empty, processing without subtitles", jobID)
		}
	}

	streamingURL := a.streamURL(finalFilename)
	videoEntity := entity.NewVideoEntity(req.Video.Filename, finalFilename, streamingURL, req.SourceVideoID)
	if req.DetectedLanguage != "" || req.ObjectCounts() != nil {
		videoEntity.SetEnrichment(req.DetectedLanguage, req.ObjectCounts())
	}

	if err := a.videoRepo.Create(ctx, videoEntity); err != nil {
		cleanupFiles(tempFiles)
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	result, err := a.runPipeline(ctx, jobID, videoEntity, pipelineInput{
		params:        params,
		originalPath:  originalPath,
		subtitlePath:  subtitlePath,
		burnedPath:    burnedPath,
		finalFilename: finalFilename,
		origFilename:  req.Video.Filename,
		streamingURL:  streamingURL,
	})
	if err != nil {
		a.markFailed(ctx, videoEntity, err)
		go cleanupFiles(tempFiles)
		return nil, err
	}

	go cleanupFiles(tempFiles)
	logger.Infof("[%s] Video processing completed successfully video_id=%s", jobID, videoEntity.ID())
	return result, nil
}

type pipelineInput struct {
	params        *vo.EncodeParams
	originalPath  string
	subtitlePath  string
	burnedPath    string
	finalFilename string
	origFilename  string
	streamingURL  string
}

// runPipeline 执行烧录、存储、探测与状态落库。
// 任一环节的panic转换为处理失败错误，交由调用方标记FAILED。
func (a *videoAppImpl) runPipeline(ctx context.Context, jobID string, videoEntity *entity.VideoEntity, in pipelineInput) (result *dto.ProcessVideoResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[%s] Pipeline panic: %v", jobID, r)
			result = nil
			err = errno.NewBizError(errno.ErrProcessingFailed, fmt.Errorf("pipeline panic: %v", r))
		}
	}()

	logger.Infof("[%s] Burning subtitles into video", jobID)
	encodeErr := a.encoder.Encode(ctx, port.EncodeInput{
		InputPath:    in.originalPath,
		SubtitlePath: in.subtitlePath,
		OutputPath:   in.burnedPath,
		Resolution:   in.params.Resolution,
		CRF:          in.params.CRF,
	})
	if encodeErr != nil {
		return nil, errno.NewBizError(errno.ErrEncodingFailed, encodeErr)
	}

	logger.Infof("[%s] Saving final video to storage", jobID)
	if _, err := a.storage.Put(ctx, in.burnedPath, in.finalFilename, "video/mp4"); err != nil {
		return nil, errno.NewBizError(errno.ErrStorage, err)
	}

	info := a.prober.Probe(ctx, in.burnedPath)

	if err := videoEntity.MarkSaved(info.SizeBytes, info.DurationSeconds, info.Resolution, ""); err != nil {
		return nil, errno.NewBizError(errno.ErrInvalidStatus, err)
	}

	saved := vo.VideoStatusSaved
	patch := &repo.VideoPatch{
		Status:          &saved,
		FileSizeBytes:   &info.SizeBytes,
		DurationSeconds: &info.DurationSeconds,
		Resolution:      &info.Resolution,
	}
	if _, err := a.videoRepo.Update(ctx, videoEntity.ID(), patch); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	a.publisher.PublishVideoEvent(ctx, &mq.VideoLifecycleEvent{
		Event:         mq.EventVideoSaved,
		VideoID:       videoEntity.ID(),
		SourceVideoID: videoEntity.SourceVideoID(),
		Status:        vo.VideoStatusSaved.String(),
	})

	return &dto.ProcessVideoResult{
		Status:        "success",
		JobID:         jobID,
		VideoID:       videoEntity.ID(),
		SourceVideoID: videoEntity.SourceVideoID(),
		Message:       "Video processed and stored successfully",
		StreamingURL:  in.streamingURL,
		Metadata: dto.ProcessVideoMetadata{
			OriginalFilename: in.origFilename,
			FinalFilename:    in.finalFilename,
			Resolution:       info.Resolution,
			Duration:         info.DurationSeconds,
			FileSize:         info.SizeBytes,
		},
	}, nil
}

// markFailed 将记录置为FAILED并发布失败事件，落库失败仅记录日志。
// 请求取消常常正是流水线失败的原因，落库必须脱离请求上下文执行，
// 否则记录会永远停留在processing。
func (a *videoAppImpl) markFailed(ctx context.Context, videoEntity *entity.VideoEntity, cause error) {
	ctx = context.WithoutCancel(ctx)
	failed := vo.VideoStatusFailed
	message := cause.Error()
	patch := &repo.VideoPatch{
		Status:       &failed,
		ErrorMessage: &message,
	}
	if _, err := a.videoRepo.Update(ctx, videoEntity.ID(), patch); err != nil {
		logger.Errorf("Failed to mark video failed video_id=%s error=%v", videoEntity.ID(), err)
	}
	a.publisher.PublishVideoEvent(ctx, &mq.VideoLifecycleEvent{
		Event:         mq.EventVideoFailed,
		VideoID:       videoEntity.ID(),
		SourceVideoID: videoEntity.SourceVideoID(),
		Status:        vo.VideoStatusFailed.String(),
		ErrorMessage:  message,
	})
}

func (a *videoAppImpl) GetVideo(ctx context.Context, videoID string) (*dto.VideoDTO, error) {
	if videoID == "" {
		return nil, errno.ErrInvalidParam
	}
	videoEntity, err := a.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if videoEntity == nil {
		return nil, errno.ErrVideoNotFound
	}
	return a.toDtoWithFreshLink(ctx, videoEntity), nil
}

func (a *videoAppImpl) GetVideoBySource(ctx context.Context, sourceVideoID string) (*dto.VideoDTO, error) {
	if sourceVideoID == "" {
		return nil, errno.ErrInvalidParam
	}
	videoEntity, err := a.videoRepo.GetBySourceID(ctx, sourceVideoID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if videoEntity == nil {
		return nil, errno.ErrVideoNotFound
	}
	return a.toDtoWithFreshLink(ctx, videoEntity), nil
}

func (a *videoAppImpl) ListVideos(ctx context.Context, status *vo.VideoStatus, limit int) (*dto.VideoListDTO, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	entities, err := a.videoRepo.ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	dtos := make([]*dto.VideoDTO, 0, len(entities))
	for _, e := range entities {
		dtos = append(dtos, dto.NewVideoDto(e))
	}
	return &dto.VideoListDTO{Total: len(dtos), Videos: dtos}, nil
}

func (a *videoAppImpl) DeleteVideo(ctx context.Context, videoID string) error {
	if videoID == "" {
		return errno.ErrInvalidParam
	}
	videoEntity, err := a.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return errno.NewBizError(errno.ErrDatabase, err)
	}
	if videoEntity == nil {
		return errno.ErrVideoNotFound
	}

	// 存储对象清理为尽力而为，不阻塞元数据删除
	storageKey := videoEntity.StorageKey()
	go func() {
		if _, err := a.storage.Delete(context.Background(), storageKey); err != nil {
			logger.Errorf("Failed to delete storage object key=%s error=%v", storageKey, err)
		}
	}()

	existed, err := a.videoRepo.Delete(ctx, videoID)
	if err != nil {
		return errno.NewBizError(errno.ErrDatabase, err)
	}
	if !existed {
		return errno.ErrVideoNotFound
	}

	a.publisher.PublishVideoEvent(ctx, &mq.VideoLifecycleEvent{
		Event:         mq.EventVideoDeleted,
		VideoID:       videoID,
		SourceVideoID: videoEntity.SourceVideoID(),
		Status:        videoEntity.Status().String(),
	})
	logger.Infof("Video deleted video_id=%s", videoID)
	return nil
}

func (a *videoAppImpl) OpenStream(ctx context.Context, key, rangeHeader string) (*dto.StreamPayload, error) {
	size, ok, err := a.storage.Size(ctx, key)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrStorage, err)
	}
	if !ok {
		return nil, errno.ErrVideoNotFound
	}

	// 全量请求且后端支持签名链接时直接重定向，流量不过本服务
	if strings.TrimSpace(rangeHeader) == "" && a.storage.SupportsPresign() {
		u, err := a.storage.PresignedURL(ctx, key, a.cfg.Storage.PresignTTL)
		if err == nil && u != "" {
			return &dto.StreamPayload{RedirectURL: u}, nil
		}
		logger.Warnf("Presign failed, falling back to proxy streaming key=%s error=%v", key, err)
	}

	plan, err := a.streamSvc.Plan(size, rangeHeader)
	if err != nil {
		return nil, err
	}

	body, err := a.storage.ReadRange(ctx, key, plan.Start, plan.Length)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrStorage, err)
	}
	return &dto.StreamPayload{Plan: plan, Body: body, ContentType: "video/mp4"}, nil
}

func (a *videoAppImpl) Health(ctx context.Context) *dto.HealthDTO {
	storageOK := a.storage.Ping(ctx) == nil
	metaOK := a.videoRepo.Ping(ctx) == nil

	status := "healthy"
	if !storageOK || !metaOK {
		status = "degraded"
	}
	return &dto.HealthDTO{
		Status:           status,
		Service:          "Video Aggregation Service",
		Version:          serviceVersion,
		StorageAvailable: storageOK,
		MetadataBackend:  a.cfg.Metadata.Backend,
		MetadataHealthy:  metaOK,
	}
}

// toDtoWithFreshLink 查询时对支持签名的后端重新生成访问链接
func (a *videoAppImpl) toDtoWithFreshLink(ctx context.Context, e *entity.VideoEntity) *dto.VideoDTO {
	d := dto.NewVideoDto(e)
	if e.Status() == vo.VideoStatusSaved && a.storage.SupportsPresign() {
		if u, err := a.storage.PresignedURL(ctx, e.StorageKey(), a.cfg.Storage.PresignTTL); err == nil && u != "" {
			d.Link = u
		}
	}
	return d
}

func (a *videoAppImpl) streamURL(filename string) string {
	base := strings.TrimRight(a.cfg.Public.BaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d", a.cfg.Server.Port)
	}
	return base + "/api/video_storage/" + filename
}

func newJobID() string {
	return "job_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// saveUpload 将上传文件写入本地路径
func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload failed: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create temp file failed: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write upload failed: %w", err)
	}
	return nil
}

// cleanupFiles 删除临时文件，不存在不算错误
func cleanupFiles(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warnf("Failed to remove temp file %s: %v", p, err)
		}
	}
}
