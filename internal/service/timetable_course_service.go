package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"coursebook/internal/classtime"
	"coursebook/internal/dto"
	"coursebook/internal/model"
	"coursebook/internal/repository"
	apperrors "coursebook/pkg/errors"
)

// TimetableCourseService 课表内课程增删业务接口
type TimetableCourseService interface {
	// AddCourse 向课表添加课程，与已有课程时间冲突时拒绝
	AddCourse(ctx context.Context, timetableID, courseID int64, userID string) (*dto.TimetableEntryResponse, error)
	// RemoveCourse 从课表移除课程
	RemoveCourse(ctx context.Context, timetableID, courseID int64, userID string) error
}

type timetableCourseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableCourseService 创建 TimetableCourseService 实例
func NewTimetableCourseService(repo *repository.Repository, logger *zap.Logger) TimetableCourseService {
	return &timetableCourseService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// AddCourse — 添加课程
// ════════════════════════════════════════════════════════════
//
// 全部步骤在一个事务内完成，课表行加 FOR UPDATE 锁，
// 同一课表的并发添加串行化，冲突检查与写入之间不会插入其他课程：
//   1. 锁定课表（不存在 → ErrTimetableNotFound）
//   2. 校验归属（→ ErrTimetableForbidden）
//   3. 课程存在（→ ErrCourseNotFound）
//   4. 未重复添加（→ ErrCourseAlreadyAdded）
//   5. 与课表内其他课程无时间冲突（→ ErrCourseTimeConflict）
//   6. 写入关联

func (s *timetableCourseService) AddCourse(ctx context.Context, timetableID, courseID int64, userID string) (*dto.TimetableEntryResponse, error) {
	var entry *model.TimetableEntry

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		timetable, err := txRepo.Timetable.GetByIDForUpdate(ctx, timetableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimetableNotFound
			}
			return err
		}
		if timetable.UserID != userID {
			return ErrTimetableForbidden
		}

		if _, err := txRepo.Course.GetByID(ctx, courseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		exists, err := txRepo.TimetableEntry.Exists(ctx, timetableID, courseID)
		if err != nil {
			return err
		}
		if exists {
			return ErrCourseAlreadyAdded
		}

		if err := s.checkConflict(ctx, txRepo, timetableID, courseID); err != nil {
			return err
		}

		entry = &model.TimetableEntry{TimetableID: timetableID, CourseID: courseID}
		if err := txRepo.TimetableEntry.Create(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCourseAlreadyAdded
			}
			return err
		}
		return nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("添加课程失败",
				zap.Int64("timetable_id", timetableID),
				zap.Int64("course_id", courseID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	return &dto.TimetableEntryResponse{
		ID:          entry.ID,
		TimetableID: entry.TimetableID,
		CourseID:    entry.CourseID,
	}, nil
}

// checkConflict 候选课程时段与课表内其他课程时段逐一比较
func (s *timetableCourseService) checkConflict(ctx context.Context, txRepo *repository.Repository, timetableID, courseID int64) error {
	candidate, err := txRepo.MeetingSlot.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if len(candidate) == 0 {
		return nil
	}

	ids, err := txRepo.TimetableEntry.ListCourseIDs(ctx, timetableID)
	if err != nil {
		return err
	}
	others := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != courseID {
			others = append(others, id)
		}
	}
	existing, err := txRepo.MeetingSlot.ListByCourses(ctx, others)
	if err != nil {
		return err
	}

	if err := classtime.CheckConflict(toClassSlots(candidate), toClassSlots(existing)); err != nil {
		return ErrCourseTimeConflict.WithCause(err)
	}
	return nil
}

// ────────────────────── RemoveCourse ──────────────────────

func (s *timetableCourseService) RemoveCourse(ctx context.Context, timetableID, courseID int64, userID string) error {
	timetable, err := s.repo.Timetable.GetByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.Int64("id", timetableID), zap.Error(err))
		return err
	}
	if timetable.UserID != userID {
		return ErrTimetableForbidden
	}

	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", courseID), zap.Error(err))
		return err
	}

	n, err := s.repo.TimetableEntry.Delete(ctx, timetableID, courseID)
	if err != nil {
		s.logger.Error("移除课程失败", zap.Int64("timetable_id", timetableID), zap.Int64("course_id", courseID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrTimetableEntryMissing
	}
	return nil
}
