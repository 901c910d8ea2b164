package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"video-aggregation-service/ddd/application/cqe"
	"video-aggregation-service/ddd/application/dto"
	"video-aggregation-service/ddd/domain/service"
	"video-aggregation-service/ddd/domain/vo"
	"video-aggregation-service/pkg/errno"
)

// fakeVideoApp 以内存对象驱动控制器测试
type fakeVideoApp struct {
	objects     map[string][]byte
	presignURL  string
	streamSvc   *service.StreamService
	lastProcess *cqe.ProcessVideoReq
}

func newFakeVideoApp() *fakeVideoApp {
	return &fakeVideoApp{
		objects:   make(map[string][]byte),
		streamSvc: service.NewStreamService(),
	}
}

func (f *fakeVideoApp) ProcessVideo(ctx context.Context, req *cqe.ProcessVideoReq) (*dto.ProcessVideoResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.lastProcess = req
	return &dto.ProcessVideoResult{
		Status:  "success",
		JobID:   "job_deadbeef",
		VideoID: "vid-1",
		Message: "Video processed and stored successfully",
	}, nil
}

func (f *fakeVideoApp) GetVideo(ctx context.Context, videoID string) (*dto.VideoDTO, error) {
	return nil, errno.ErrVideoNotFound
}

func (f *fakeVideoApp) GetVideoBySource(ctx context.Context, sourceVideoID string) (*dto.VideoDTO, error) {
	return nil, errno.ErrVideoNotFound
}

func (f *fakeVideoApp) ListVideos(ctx context.Context, status *vo.VideoStatus, limit int) (*dto.VideoListDTO, error) {
	return &dto.VideoListDTO{Total: 0, Videos: []*dto.VideoDTO{}}, nil
}

func (f *fakeVideoApp) DeleteVideo(ctx context.Context, videoID string) error {
	return errno.ErrVideoNotFound
}

func (f *fakeVideoApp) OpenStream(ctx context.Context, key, rangeHeader string) (*dto.StreamPayload, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errno.ErrVideoNotFound
	}
	if rangeHeader == "" && f.presignURL != "" {
		return &dto.StreamPayload{RedirectURL: f.presignURL}, nil
	}
	plan, err := f.streamSvc.Plan(int64(len(data)), rangeHeader)
	if err != nil {
		return nil, err
	}
	segment := data[plan.Start : plan.Start+plan.Length]
	return &dto.StreamPayload{
		Plan:        plan,
		Body:        io.NopCloser(bytes.NewReader(segment)),
		ContentType: "video/mp4",
	}, nil
}

func (f *fakeVideoApp) Health(ctx context.Context) *dto.HealthDTO {
	return &dto.HealthDTO{Status: "healthy", Service: "Video Aggregation Service"}
}

func newTestEngine(fake *fakeVideoApp) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewRouter(fake, 4).SetupRoutes(engine)
	return engine
}

func TestStreamVideoFullContent(t *testing.T) {
	fake := newFakeVideoApp()
	fake.objects["v.mp4"] = []byte("0123456789")
	engine := newTestEngine(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/video_storage/v.mp4", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("Accept-Ranges") != "bytes" {
		t.Error("missing Accept-Ranges header")
	}
	if w.Header().Get("Content-Length") != "10" {
		t.Errorf("Content-Length = %q", w.Header().Get("Content-Length"))
	}
	if w.Body.String() != "0123456789" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestStreamVideoPartialContent(t *testing.T) {
	fake := newFakeVideoApp()
	fake.objects["v.mp4"] = []byte("0123456789abcdefghij")
	engine := newTestEngine(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/video_storage/v.mp4", nil)
	req.Header.Set("Range", "bytes=0-9")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", w.Code)
	}
	if got := w.Header().Get("Content-Range"); got != "bytes 0-9/20" {
		t.Errorf("Content-Range = %q", got)
	}
	if got := w.Header().Get("Content-Length"); got != "10" {
		t.Errorf("Content-Length = %q", got)
	}
	if w.Body.Len() != 10 || w.Body.String() != "0123456789" {
		t.Errorf("body = %q (%d bytes)", w.Body.String(), w.Body.Len())
	}
}

func TestStreamVideoRangeNotSatisfiable(t *testing.T) {
	fake := newFakeVideoApp()
	fake.objects["v.mp4"] = []byte("0123456789")
	engine := newTestEngine(fake)

	for _, header := range []string{"bytes=500-200", "bytes=100-", "bytes=-5", "items=0-5"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/video_storage/v.mp4", nil)
		req.Header.Set("Range", header)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusRequestedRangeNotSatisfiable {
			t.Errorf("Range %q: status = %d, want 416", header, w.Code)
		}
	}
}

func TestStreamVideoNotFound(t *testing.T) {
	engine := newTestEngine(newFakeVideoApp())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/video_storage/missing.mp4", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestStreamVideoPresignRedirect(t *testing.T) {
	fake := newFakeVideoApp()
	fake.objects["v.mp4"] = []byte("0123456789")
	fake.presignURL = "http://minio.local/videos/v.mp4?signature=abc"
	engine := newTestEngine(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/video_storage/v.mp4", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != fake.presignURL {
		t.Errorf("Location = %q", loc)
	}

	// Range请求不重定向，必须由服务代理分段
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/video_storage/v.mp4", nil)
	req.Header.Set("Range", "bytes=0-3")
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusPartialContent {
		t.Errorf("range request status = %d, want 206", w.Code)
	}
}

func TestProcessVideoEndpointBindsMultipart(t *testing.T) {
	fake := newFakeVideoApp()
	engine := newTestEngine(fake)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("video", "movie.mp4")
	fw.Write([]byte("fake video"))
	sw, _ := mw.CreateFormFile("srt_file", "movie.srt")
	sw.Write([]byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n"))
	mw.WriteField("resolution", "720p")
	mw.WriteField("crf_value", "28")
	mw.WriteField("source_video_id", "src-9")
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process-video", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if fake.lastProcess == nil {
		t.Fatal("handler did not reach the app layer")
	}
	if fake.lastProcess.Resolution != "720p" || fake.lastProcess.CRF() != 28 {
		t.Errorf("bound resolution=%q crf=%d", fake.lastProcess.Resolution, fake.lastProcess.CRF())
	}
	if fake.lastProcess.SourceVideoID != "src-9" {
		t.Errorf("bound source_video_id = %q", fake.lastProcess.SourceVideoID)
	}
	if !strings.Contains(w.Body.String(), "job_deadbeef") {
		t.Errorf("response body = %s", w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestEngine(newFakeVideoApp())

	for _, path := range []string{"/health", "/api/health"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "healthy") {
			t.Errorf("%s body = %s", path, w.Body.String())
		}
	}
}
