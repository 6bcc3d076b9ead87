package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"coursebook/internal/dto"
	"coursebook/internal/service"
	"coursebook/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
	syncSvc   service.CatalogSyncService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService, syncSvc service.CatalogSyncService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, syncSvc: syncSvc}
}

// Search 课程检索（游标分页）
// GET /api/v1/courses?year=2025&semester=2&query=&cursor=&size=
func (h *CourseHandler) Search(c *gin.Context) {
	var req dto.CourseSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	page, err := h.courseSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKCursorPage(c, page.List, page.HasNext, page.NextCursor)
}

// GetByID 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) GetByID(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, course)
}

// Fetch 从 sugang 同步指定学期课程目录（管理员）
// POST /api/v1/courses/fetch?year=2025&semester=2
func (h *CourseHandler) Fetch(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	count, err := h.syncSvc.Synchronize(c.Request.Context(), req.Year, req.Semester)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, dto.SyncResponse{
		Year:     req.Year,
		Semester: req.Semester,
		Count:    count,
		Message:  fmt.Sprintf("已同步 %d 门课程", count),
	})
}
