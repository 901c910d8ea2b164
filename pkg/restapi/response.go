package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"video-aggregation-service/pkg/errno"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 返回失败响应，错误码映射为HTTP状态
func Failed(ctx *gin.Context, err error) {
	e := errno.CodeOf(err)
	ctx.JSON(httpStatus(e), Response{
		Code:    e.Code,
		Message: err.Error(),
	})
}

// httpStatus 业务错误码到HTTP状态码的映射
func httpStatus(e *errno.Errno) int {
	switch {
	case e.Code >= 400 && e.Code < 500:
		return e.Code
	case e.Code >= 500 && e.Code < 600:
		return http.StatusInternalServerError
	}
	switch e {
	case errno.ErrVideoNotFound:
		return http.StatusNotFound
	case errno.ErrVideoFileRequired, errno.ErrCrfOutOfRange, errno.ErrInvalidStatus:
		return http.StatusBadRequest
	case errno.ErrInvalidRangeStart:
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}
