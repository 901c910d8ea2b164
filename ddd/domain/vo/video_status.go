package vo

// VideoStatus 视频处理状态
type VideoStatus string

const (
	// VideoStatusPending 待处理（状态机完整性保留，当前实现直接以processing创建记录）
	VideoStatusPending VideoStatus = "pending"
	// VideoStatusProcessing 处理中
	VideoStatusProcessing VideoStatus = "processing"
	// VideoStatusSaved 已保存
	VideoStatusSaved VideoStatus = "saved"
	// VideoStatusFailed 失败
	VideoStatusFailed VideoStatus = "failed"
)

// IsValid 检查状态是否有效
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusPending, VideoStatusProcessing, VideoStatusSaved, VideoStatusFailed:
		return true
	default:
		return false
	}
}

// String 返回状态字符串
func (s VideoStatus) String() string {
	return string(s)
}

// IsTerminal 检查是否为最终状态
func (s VideoStatus) IsTerminal() bool {
	return s == VideoStatusSaved || s == VideoStatusFailed
}

// CanTransitionTo 检查是否可以转换到目标状态
func (s VideoStatus) CanTransitionTo(target VideoStatus) bool {
	switch s {
	case VideoStatusPending:
		return target == VideoStatusProcessing
	case VideoStatusProcessing:
		return target == VideoStatusSaved || target == VideoStatusFailed
	case VideoStatusSaved, VideoStatusFailed:
		return false // 最终状态不能转换
	default:
		return false
	}
}
