package port

import "context"

// EncodeInput 单次编码调用的输入
type EncodeInput struct {
	InputPath    string
	SubtitlePath string // 为空表示不烧录字幕
	OutputPath   string
	Resolution   string // WxH
	CRF          int
}

// MediaInfo ffprobe探测结果；探测失败时各字段为零值
type MediaInfo struct {
	DurationSeconds float64
	SizeBytes       int64
	Resolution      string
	Codec           string
}

// Encoder 外部编码器端口
type Encoder interface {
	// Encode 执行编码，失败返回带诊断信息的错误
	Encode(ctx context.Context, input EncodeInput) error
}

// MediaProber 媒体属性探测端口
type MediaProber interface {
	Probe(ctx context.Context, path string) MediaInfo
}
