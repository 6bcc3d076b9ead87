package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursebook/internal/model"
)

// TimetableRepository 课表数据访问接口
type TimetableRepository interface {
	Create(ctx context.Context, timetable *model.Timetable) error
	GetByID(ctx context.Context, id int64) (*model.Timetable, error)
	// GetByIDForUpdate 读取并锁定课表行，必须在事务内调用
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Timetable, error)
	ListByUser(ctx context.Context, userID string) ([]model.Timetable, error)
	ExistsByName(ctx context.Context, userID, name string, year, semester int) (bool, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, timetable *model.Timetable) error {
	return r.db.WithContext(ctx).Create(timetable).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, id int64) (*model.Timetable, error) {
	var timetable model.Timetable
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&timetable).Error
	if err != nil {
		return nil, err
	}
	return &timetable, nil
}

func (r *timetableRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Timetable, error) {
	var timetable model.Timetable
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&timetable).Error
	if err != nil {
		return nil, err
	}
	return &timetable, nil
}

func (r *timetableRepo) ListByUser(ctx context.Context, userID string) ([]model.Timetable, error) {
	var timetables []model.Timetable
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year DESC, semester DESC, id ASC").
		Find(&timetables).Error
	return timetables, err
}

func (r *timetableRepo) ExistsByName(ctx context.Context, userID, name string, year, semester int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Timetable{}).
		Where("user_id = ? AND name = ? AND year = ? AND semester = ?", userID, name, year, semester).
		Count(&count).Error
	return count > 0, err
}

func (r *timetableRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.Timetable{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *timetableRepo) Delete(ctx context.Context, id int64) error {
	// timetable_courses 通过外键级联删除
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Timetable{}).Error
}
