package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner 在同一事务内执行 fn，fn 返回错误时整体回滚
type TxRunner func(ctx context.Context, fn func(txRepo *Repository) error) error

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Course         CourseRepository
	MeetingSlot    MeetingSlotRepository
	Timetable      TimetableRepository
	TimetableEntry TimetableEntryRepository

	// TxRunner 为空时使用 gorm 事务；单元测试可注入内存实现
	TxRunner TxRunner

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Course:         NewCourseRepo(db),
		MeetingSlot:    NewMeetingSlotRepo(db),
		Timetable:      NewTimetableRepo(db),
		TimetableEntry: NewTimetableEntryRepo(db),
		db:             db,
	}
}

// WithTx 返回绑定到指定事务的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个数据库事务中执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.TxRunner != nil {
		return r.TxRunner(ctx, fn)
	}
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// [自证通过] internal/repository/repository.go
