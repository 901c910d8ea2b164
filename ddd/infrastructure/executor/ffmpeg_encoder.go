package executor

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"video-aggregation-service/ddd/domain/port"
	"video-aggregation-service/pkg/config"
	"video-aggregation-service/pkg/errno"
	"video-aggregation-service/pkg/logger"
)

const stderrTailLines = 20

// FFmpegEncoder implements port.Encoder and port.MediaProber using local ffmpeg/ffprobe.
type FFmpegEncoder struct {
	cfg *config.Config
}

func NewFFmpegEncoder(cfg *config.Config) *FFmpegEncoder {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &FFmpegEncoder{cfg: cfg}
}

// Encode 执行字幕烧录与压缩，超时或非零退出返回编码错误。
func (e *FFmpegEncoder) Encode(ctx context.Context, input port.EncodeInput) error {
	if _, err := os.Stat(input.InputPath); err != nil {
		return errno.NewBizError(errno.ErrEncodingFailed, fmt.Errorf("input file not found: %s", input.InputPath))
	}

	encCfg := e.encodeConfig()

	runCtx := ctx
	var cancel context.CancelFunc
	if encCfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, encCfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, encCfg.BinaryPath, e.buildArgs(input, encCfg)...)
	logger.Infof("ffmpeg command output=%s command=%s", input.OutputPath, strings.Join(cmd.Args, " "))

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errno.NewBizError(errno.ErrEncodingFailed, fmt.Errorf("create stderr pipe: %w", err))
	}
	if err := cmd.Start(); err != nil {
		return errno.NewBizError(errno.ErrEncodingFailed, fmt.Errorf("start ffmpeg: %w", err))
	}

	tailDone := make(chan struct{})
	tail := make([]string, 0, stderrTailLines)
	go func() {
		defer close(tailDone)
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
		for scanner.Scan() {
			if len(tail) >= stderrTailLines {
				tail = tail[1:]
			}
			tail = append(tail, scanner.Text())
		}
	}()

	err = cmd.Wait()
	<-tailDone

	if runCtx.Err() != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		// CommandContext已终止进程
		return errno.NewBizError(errno.ErrEncodingFailed,
			fmt.Errorf("ffmpeg timed out after %s", encCfg.Timeout))
	}
	if err != nil {
		diag := strings.Join(tail, "\n")
		logger.Errorf("ffmpeg failed tail_stderr=%s", diag)
		return errno.NewBizError(errno.ErrEncodingFailed,
			fmt.Errorf("ffmpeg exited with error: %v\n%s", err, diag))
	}
	if _, statErr := os.Stat(input.OutputPath); statErr != nil {
		return errno.NewBizError(errno.ErrEncodingFailed, errors.New("output file missing after ffmpeg run"))
	}

	return nil
}

// buildArgs 构造ffmpeg参数向量；参数逐项传递，不经shell拼接。
func (e *FFmpegEncoder) buildArgs(input port.EncodeInput, encCfg config.EncodeConfig) []string {
	args := []string{
		"-y",
		"-i", input.InputPath,
	}

	var vf string
	if input.SubtitlePath != "" {
		vf = fmt.Sprintf(
			"subtitles='%s':force_style='Fontsize=24,PrimaryColour=&H00FFFFFF,BackColour=&H80000000,BorderStyle=3',scale=%s",
			escapeFilterPath(input.SubtitlePath), input.Resolution,
		)
	} else {
		vf = fmt.Sprintf("scale=%s", input.Resolution)
	}

	args = append(args,
		"-vf", vf,
		"-c:v", encCfg.Codec,
		"-crf", strconv.Itoa(input.CRF),
		"-preset", encCfg.Preset,
		"-c:a", "aac",
		"-b:a", "128k",
		input.OutputPath,
	)
	return args
}

// escapeFilterPath 转义subtitles滤镜值中的特殊字符。
// 临时文件统一放在不含空格的目录下，只需处理反斜杠、引号与冒号。
func escapeFilterPath(path string) string {
	p := strings.ReplaceAll(path, `\`, `/`)
	p = strings.ReplaceAll(p, `'`, `'\''`)
	p = strings.ReplaceAll(p, `:`, `\:`)
	return p
}

// Probe 通过ffprobe提取媒体属性，失败时返回零值并记录日志。
func (e *FFmpegEncoder) Probe(ctx context.Context, path string) port.MediaInfo {
	encCfg := e.encodeConfig()

	cmd := exec.CommandContext(ctx, encCfg.ProbeBinaryPath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		logger.Errorf("ffprobe failed path=%s error=%v", path, err)
		return fallbackMediaInfo(path)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		logger.Errorf("ffprobe output parse failed path=%s error=%v", path, err)
		return fallbackMediaInfo(path)
	}

	info := port.MediaInfo{}
	info.DurationSeconds, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	info.SizeBytes, _ = strconv.ParseInt(probe.Format.Size, 10, 64)
	for _, s := range probe.Streams {
		if s.CodecType == "video" {
			info.Resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
			info.Codec = s.CodecName
			break
		}
	}
	if info.SizeBytes == 0 {
		if st, err := os.Stat(path); err == nil {
			info.SizeBytes = st.Size()
		}
	}
	return info
}

func fallbackMediaInfo(path string) port.MediaInfo {
	info := port.MediaInfo{}
	if st, err := os.Stat(path); err == nil {
		info.SizeBytes = st.Size()
	}
	return info
}

func (e *FFmpegEncoder) encodeConfig() config.EncodeConfig {
	cfg := e.cfg
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	if cfg == nil {
		return config.EncodeConfig{BinaryPath: "ffmpeg", ProbeBinaryPath: "ffprobe", Codec: "libx264", Preset: "medium"}
	}
	return cfg.Encode
}
