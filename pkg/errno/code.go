package errno

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam        = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrNotFound            = &Errno{Code: 404, Message: "Not found"}
	ErrUploadTooLarge      = &Errno{Code: 413, Message: "File size exceeds maximum allowed size"}
	ErrRangeNotSatisfiable = &Errno{Code: 416, Message: "Requested range not satisfiable"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrStorage        = &Errno{Code: 502, Message: "Storage backend error"}

	// 业务错误码
	ErrVideoNotFound     = &Errno{Code: 20001, Message: "Video not found"}
	ErrVideoFileRequired = &Errno{Code: 20002, Message: "Video file is required"}
	ErrCrfOutOfRange     = &Errno{Code: 20003, Message: "CRF value must be between 0 and 51"}
	ErrInvalidStatus     = &Errno{Code: 20004, Message: "Invalid video status"}
	ErrEncodingFailed    = &Errno{Code: 20005, Message: "Video encoding failed"}
	ErrProcessingFailed  = &Errno{Code: 20006, Message: "Video processing failed"}
	ErrInvalidRangeStart = &Errno{Code: 20007, Message: "Range header requires a numeric start"}
)
