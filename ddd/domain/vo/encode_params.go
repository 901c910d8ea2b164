package vo

import "fmt"

// 分辨率名称到目标尺寸的固定映射表
var resolutionMap = map[string]string{
	"1080p": "1920x1080",
	"720p":  "1280x720",
	"480p":  "854x480",
	"360p":  "640x360",
}

// DefaultResolution 未识别分辨率时的回退值
const DefaultResolution = "360p"

const (
	MinCRF = 0
	MaxCRF = 51
	// DefaultCRF ffmpeg默认质量参数
	DefaultCRF = 23
)

// ResolveDimensions 将分辨率名称映射为WxH尺寸，未知取默认值
func ResolveDimensions(name string) string {
	if dims, ok := resolutionMap[name]; ok {
		return dims
	}
	return resolutionMap[DefaultResolution]
}

// EncodeParams 编码参数值对象
type EncodeParams struct {
	Resolution string // 目标尺寸，形如 1280x720
	CRF        int
}

// NewEncodeParams 由请求参数构造编码参数；CRF越界为错误，分辨率未知回退默认
func NewEncodeParams(resolution string, crf int) (*EncodeParams, error) {
	if crf < MinCRF || crf > MaxCRF {
		return nil, fmt.Errorf("crf %d out of range [%d,%d]", crf, MinCRF, MaxCRF)
	}
	return &EncodeParams{
		Resolution: ResolveDimensions(resolution),
		CRF:        crf,
	}, nil
}
