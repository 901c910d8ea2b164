package errno

import (
	"errors"
	"fmt"
)

// BizError 携带底层原因的业务错误
type BizError struct {
	Errno *Errno
	Cause error
}

func (e *BizError) Error() string {
	if e.Cause == nil {
		return e.Errno.Message
	}
	return fmt.Sprintf("%s: %s", e.Errno.Message, e.Cause.Error())
}

func (e *BizError) Unwrap() error {
	return e.Cause
}

// NewBizError 包装业务错误码及其原因
func NewBizError(errno *Errno, cause error) *BizError {
	return &BizError{Errno: errno, Cause: cause}
}

// CodeOf 解析错误对应的错误码，未知错误归为内部错误
func CodeOf(err error) *Errno {
	var e *Errno
	if errors.As(err, &e) {
		return e
	}
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Errno
	}
	return ErrInternalServer
}
