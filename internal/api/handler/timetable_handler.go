package handler

import (
	"github.com/gin-gonic/gin"

	"coursebook/internal/dto"
	"coursebook/internal/service"
	"coursebook/pkg/response"
)

// TimetableHandler 课表模块 Handler
type TimetableHandler struct {
	svc       service.TimetableService
	courseSvc service.TimetableCourseService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService, courseSvc service.TimetableCourseService) *TimetableHandler {
	return &TimetableHandler{svc: svc, courseSvc: courseSvc}
}

// Create 创建课表
// POST /api/v1/timetables
func (h *TimetableHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 我的课表列表
// GET /api/v1/timetables
func (h *TimetableHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 课表详情
// GET /api/v1/timetables/:id
func (h *TimetableHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), id, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, detail)
}

// Update 重命名课表
// PATCH /api/v1/timetables/:id
func (h *TimetableHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除课表
// DELETE /api/v1/timetables/:id
func (h *TimetableHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 课表内课程 ──

// AddCourse 向课表添加课程
// POST /api/v1/timetables/:id/courses
func (h *TimetableHandler) AddCourse(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	resp, err := h.courseSvc.AddCourse(c.Request.Context(), id, req.CourseID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, resp)
}

// RemoveCourse 从课表移除课程
// DELETE /api/v1/timetables/:id/courses/:courseId
func (h *TimetableHandler) RemoveCourse(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	courseID, ok := MustGetIDParam(c, "courseId")
	if !ok {
		return
	}

	if err := h.courseSvc.RemoveCourse(c.Request.Context(), id, courseID, userID); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
