package dto

// ── 课程模块 DTO ──

// CourseSearchRequest 课程检索请求（GET /courses）
type CourseSearchRequest struct {
	Year     int    `form:"year"     binding:"required,min=1"`
	Semester int    `form:"semester" binding:"required,min=1,max=4"`
	Query    string `form:"query"    binding:"omitempty,max=100"`
	CursorRequest
}

// SyncRequest 课程同步请求（POST /courses/fetch）
type SyncRequest struct {
	Year     int `form:"year"     binding:"required,min=1"`
	Semester int `form:"semester" binding:"required,min=1,max=4"`
}

// CourseResponse 课程信息
type CourseResponse struct {
	ID             int64   `json:"id"`
	Year           int     `json:"year"`
	Semester       int     `json:"semester"`
	CourseNumber   string  `json:"course_number"`
	SectionNumber  string  `json:"section_number"`
	Title          string  `json:"title"`
	Subtitle       *string `json:"subtitle,omitempty"`
	Credit         int     `json:"credit"`
	Classification string  `json:"classification"`
	College        string  `json:"college"`
	Department     string  `json:"department"`
	AcademicTrack  string  `json:"academic_track"`
	AcademicYear   string  `json:"academic_year"`
	Instructor     string  `json:"instructor"`
}

// MeetingSlotResponse 上课时段
type MeetingSlotResponse struct {
	DayOfWeek   int     `json:"day_of_week"` // 0=월 … 6=일
	StartMinute int     `json:"start_minute"`
	EndMinute   int     `json:"end_minute"`
	StartTime   string  `json:"start_time"` // "HH:MM"
	EndTime     string  `json:"end_time"`
	Location    *string `json:"location,omitempty"`
}

// CourseDetailResponse 课程详情（含上课时段）
type CourseDetailResponse struct {
	CourseResponse
	MeetingSlots []MeetingSlotResponse `json:"meeting_slots"`
}
