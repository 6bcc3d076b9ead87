package repository

import (
	"context"

	"gorm.io/gorm"

	"coursebook/internal/model"
)

// MeetingSlotRepository 上课时段数据访问接口
type MeetingSlotRepository interface {
	BatchCreate(ctx context.Context, slots []model.MeetingSlot) error
	ListByCourse(ctx context.Context, courseID int64) ([]model.MeetingSlot, error)
	ListByCourses(ctx context.Context, courseIDs []int64) ([]model.MeetingSlot, error)
}

type meetingSlotRepo struct {
	db *gorm.DB
}

// NewMeetingSlotRepo 创建 MeetingSlotRepository 实例
func NewMeetingSlotRepo(db *gorm.DB) MeetingSlotRepository {
	return &meetingSlotRepo{db: db}
}

func (r *meetingSlotRepo) BatchCreate(ctx context.Context, slots []model.MeetingSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *meetingSlotRepo) ListByCourse(ctx context.Context, courseID int64) ([]model.MeetingSlot, error) {
	var slots []model.MeetingSlot
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("day_of_week ASC, start_minute ASC").
		Find(&slots).Error
	return slots, err
}

func (r *meetingSlotRepo) ListByCourses(ctx context.Context, courseIDs []int64) ([]model.MeetingSlot, error) {
	var slots []model.MeetingSlot
	if len(courseIDs) == 0 {
		return slots, nil
	}
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("course_id ASC, day_of_week ASC, start_minute ASC").
		Find(&slots).Error
	return slots, err
}
