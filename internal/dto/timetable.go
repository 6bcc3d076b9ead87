package dto

// ── 课表模块 DTO ──

// CreateTimetableRequest 创建课表请求
type CreateTimetableRequest struct {
	Name     string `json:"name"     binding:"max=100"`
	Year     int    `json:"year"     binding:"required,min=1"`
	Semester int    `json:"semester" binding:"required,min=1,max=4"`
}

// UpdateTimetableRequest 修改课表请求（目前仅支持重命名）
type UpdateTimetableRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
}

// AddCourseRequest 向课表添加课程
type AddCourseRequest struct {
	CourseID int64 `json:"course_id" binding:"required,min=1"`
}

// ExportICSRequest 导出 iCalendar 参数
type ExportICSRequest struct {
	Start string `form:"start" binding:"required"` // 学期第一周周一 "2026-03-02"
	Weeks int    `form:"weeks" binding:"omitempty,min=1,max=30"`
}

// TimetableResponse 课表信息
type TimetableResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Semester  int    `json:"semester"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TimetableDetailResponse 课表详情：课程 + 上课时段 + 总学分
type TimetableDetailResponse struct {
	TimetableResponse
	Credits int                    `json:"credits"`
	Courses []CourseDetailResponse `json:"courses"`
}

// TimetableEntryResponse 课表-课程关联
type TimetableEntryResponse struct {
	ID          int64 `json:"id"`
	TimetableID int64 `json:"timetable_id"`
	CourseID    int64 `json:"course_id"`
}
