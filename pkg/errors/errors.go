package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别（封闭集合，调用方可穷举匹配）
type Kind int

const (
	KindInternal    Kind = iota // 未分类 / 存储层故障
	KindInvalid                 // 参数非法
	KindNotFound                // 资源不存在
	KindForbidden               // 无权操作
	KindConflict                // 业务冲突（时间冲突、重名、并发同步）
	KindUnavailable             // 外部依赖不可达（课程目录下载失败）
)

// String 返回类别名，便于日志输出
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error 带类别与业务码的错误
//
// 同一 Code 视为同一种错误：errors.Is 比较 Code，
// 因此 WithCause 生成的副本仍能与原始哨兵错误匹配。
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

// New 创建哨兵业务错误
func New(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is 按业务码匹配
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause 返回附带底层原因的副本，哨兵本身不被修改
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// KindOf 提取错误类别；非业务错误归为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As 提取 *Error
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
