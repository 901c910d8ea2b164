package service

import (
	"fmt"
	"strconv"
	"strings"

	"video-aggregation-service/pkg/errno"
)

// StreamPlan 一次流式响应的字节计划
type StreamPlan struct {
	Partial      bool   // true对应206，false对应200全量
	Start        int64  // 起始字节偏移
	Length       int64  // 响应字节数
	TotalSize    int64  // 对象总大小
	ContentRange string // 206时的Content-Range值，如 bytes 0-99/1000
}

// StreamService 范围请求计划服务。只读，可被任意并发调用。
type StreamService struct{}

func NewStreamService() *StreamService {
	return &StreamService{}
}

// Plan 解析并校验Range头，产出响应计划。
// 头缺失返回全量计划；格式非法或越界返回416错误。
func (s *StreamService) Plan(size int64, rangeHeader string) (*StreamPlan, error) {
	if strings.TrimSpace(rangeHeader) == "" {
		return &StreamPlan{
			Partial:   false,
			Start:     0,
			Length:    size,
			TotalSize: size,
		}, nil
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrRangeNotSatisfiable, err)
	}

	if start >= size || end >= size || start > end {
		return nil, errno.NewBizError(errno.ErrRangeNotSatisfiable,
			fmt.Errorf("range %d-%d outside object of %d bytes", start, end, size))
	}

	return &StreamPlan{
		Partial:      true,
		Start:        start,
		Length:       end - start + 1,
		TotalSize:    size,
		ContentRange: fmt.Sprintf("bytes %d-%d/%d", start, end, size),
	}, nil
}

// parseRange 解析 bytes=<start>-<end> 形式。
// start必须给出；end缺省为文件末尾。
func parseRange(header string, size int64) (start, end int64, err error) {
	spec := strings.TrimSpace(header)
	if !strings.HasPrefix(spec, "bytes=") {
		return 0, 0, fmt.Errorf("unsupported range unit in %q", header)
	}
	spec = strings.TrimPrefix(spec, "bytes=")

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed range %q", header)
	}

	startStr := strings.TrimSpace(parts[0])
	if startStr == "" {
		// 后缀形式（bytes=-N）不支持：起始偏移必须显式给出
		return 0, 0, fmt.Errorf("range %q has no numeric start", header)
	}
	start, err = strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, fmt.Errorf("invalid range start %q", startStr)
	}

	endStr := strings.TrimSpace(parts[1])
	if endStr == "" {
		return start, size - 1, nil
	}
	end, err = strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < 0 {
		return 0, 0, fmt.Errorf("invalid range end %q", endStr)
	}

	return start, end, nil
}
