package repository

import (
	"context"

	"gorm.io/gorm"

	"coursebook/internal/model"
)

// TimetableEntryRepository 课表-课程关联数据访问接口
type TimetableEntryRepository interface {
	Create(ctx context.Context, entry *model.TimetableEntry) error
	Exists(ctx context.Context, timetableID, courseID int64) (bool, error)
	ListCourseIDs(ctx context.Context, timetableID int64) ([]int64, error)
	// Delete 返回实际删除的行数
	Delete(ctx context.Context, timetableID, courseID int64) (int64, error)
}

type timetableEntryRepo struct {
	db *gorm.DB
}

// NewTimetableEntryRepo 创建 TimetableEntryRepository 实例
func NewTimetableEntryRepo(db *gorm.DB) TimetableEntryRepository {
	return &timetableEntryRepo{db: db}
}

func (r *timetableEntryRepo) Create(ctx context.Context, entry *model.TimetableEntry) error {
	return r.db.WithContext(ctx).Omit("Course").Create(entry).Error
}

func (r *timetableEntryRepo) Exists(ctx context.Context, timetableID, courseID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Where("timetable_id = ? AND course_id = ?", timetableID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *timetableEntryRepo) ListCourseIDs(ctx context.Context, timetableID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Where("timetable_id = ?", timetableID).
		Order("id ASC").
		Pluck("course_id", &ids).Error
	return ids, err
}

func (r *timetableEntryRepo) Delete(ctx context.Context, timetableID, courseID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("timetable_id = ? AND course_id = ?", timetableID, courseID).
		Delete(&model.TimetableEntry{})
	return result.RowsAffected, result.Error
}
