package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"coursebook/internal/dto"
	"coursebook/internal/model"
	"coursebook/internal/repository"
	apperrors "coursebook/pkg/errors"
)

// ── TimetableService 接口 ──────────────────────────────────
//
// 课表归属于唯一用户，所有读写操作都校验归属：
// 课表不存在 → ErrTimetableNotFound；非本人 → ErrTimetableForbidden。
// 同一用户同一学年学期下课表名称唯一。
// ─────────────────────────────────────────────────────────────

// TimetableService 课表业务接口
type TimetableService interface {
	Create(ctx context.Context, req *dto.CreateTimetableRequest, userID string) (*dto.TimetableResponse, error)
	List(ctx context.Context, userID string) ([]dto.TimetableResponse, error)
	// Detail 课表详情：课程、上课时段与总学分
	Detail(ctx context.Context, id int64, userID string) (*dto.TimetableDetailResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateTimetableRequest, userID string) (*dto.TimetableResponse, error)
	Delete(ctx context.Context, id int64, userID string) error
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timetableService) Create(ctx context.Context, req *dto.CreateTimetableRequest, userID string) (*dto.TimetableResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrTimetableBlankName
	}
	if !model.ValidSemester(req.Semester) {
		return nil, ErrInvalidTerm
	}

	exists, err := s.repo.Timetable.ExistsByName(ctx, userID, req.Name, req.Year, req.Semester)
	if err != nil {
		s.logger.Error("检查课表重名失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrTimetableNameConflict
	}

	timetable := &model.Timetable{
		UserID:   userID,
		Name:     req.Name,
		Year:     req.Year,
		Semester: req.Semester,
	}
	if err := s.repo.Timetable.Create(ctx, timetable); err != nil {
		// 并发创建同名课表时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTimetableNameConflict
		}
		s.logger.Error("创建课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toTimetableResponse(timetable)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *timetableService) List(ctx context.Context, userID string) ([]dto.TimetableResponse, error) {
	timetables, err := s.repo.Timetable.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimetableResponse, 0, len(timetables))
	for i := range timetables {
		result = append(result, toTimetableResponse(&timetables[i]))
	}
	return result, nil
}

// ────────────────────── Detail ──────────────────────

func (s *timetableService) Detail(ctx context.Context, id int64, userID string) (*dto.TimetableDetailResponse, error) {
	timetable, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	courses, slotsByCourse, err := loadTimetableCourses(ctx, s.repo, timetable.ID)
	if err != nil {
		s.logger.Error("加载课表课程失败", zap.Int64("timetable_id", id), zap.Error(err))
		return nil, err
	}

	detail := &dto.TimetableDetailResponse{
		TimetableResponse: toTimetableResponse(timetable),
		Courses:           make([]dto.CourseDetailResponse, 0, len(courses)),
	}
	for i := range courses {
		detail.Credits += courses[i].Credit
		detail.Courses = append(detail.Courses, dto.CourseDetailResponse{
			CourseResponse: toCourseResponse(&courses[i]),
			MeetingSlots:   toSlotResponses(slotsByCourse[courses[i].ID]),
		})
	}
	return detail, nil
}

// ────────────────────── Update ──────────────────────

func (s *timetableService) Update(ctx context.Context, id int64, req *dto.UpdateTimetableRequest, userID string) (*dto.TimetableResponse, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrTimetableBlankName
	}

	timetable, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != timetable.Name {
		exists, err := s.repo.Timetable.ExistsByName(ctx, userID, *req.Name, timetable.Year, timetable.Semester)
		if err != nil {
			s.logger.Error("检查课表重名失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrTimetableNameConflict
		}
		if err := s.repo.Timetable.UpdateName(ctx, id, *req.Name); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrTimetableNameConflict
			}
			s.logger.Error("重命名课表失败", zap.Int64("id", id), zap.Error(err))
			return nil, err
		}
		timetable.Name = *req.Name
		timetable.UpdatedAt = time.Now()
	}

	resp := toTimetableResponse(timetable)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *timetableService) Delete(ctx context.Context, id int64, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Timetable.Delete(ctx, id); err != nil {
		s.logger.Error("删除课表失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

// getOwned 读取课表并校验归属
func (s *timetableService) getOwned(ctx context.Context, id int64, userID string) (*model.Timetable, error) {
	timetable, err := loadOwnedTimetable(ctx, s.repo, id, userID)
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("查询课表失败", zap.Int64("id", id), zap.Error(err))
		}
	}
	return timetable, err
}

// loadOwnedTimetable 读取课表；不存在 → ErrTimetableNotFound，非本人 → ErrTimetableForbidden
func loadOwnedTimetable(ctx context.Context, repo *repository.Repository, id int64, userID string) (*model.Timetable, error) {
	timetable, err := repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		return nil, err
	}
	if timetable.UserID != userID {
		return nil, ErrTimetableForbidden
	}
	return timetable, nil
}

// loadTimetableCourses 读取课表内的课程（按加入顺序）及其上课时段
func loadTimetableCourses(ctx context.Context, repo *repository.Repository, timetableID int64) ([]model.Course, map[int64][]model.MeetingSlot, error) {
	ids, err := repo.TimetableEntry.ListCourseIDs(ctx, timetableID)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return []model.Course{}, map[int64][]model.MeetingSlot{}, nil
	}

	courses, err := repo.Course.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	order := make(map[int64]int, len(ids))
	for i, id := range ids {
		order[id] = i
	}
	sort.SliceStable(courses, func(i, j int) bool {
		return order[courses[i].ID] < order[courses[j].ID]
	})

	slots, err := repo.MeetingSlot.ListByCourses(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	slotsByCourse := make(map[int64][]model.MeetingSlot, len(ids))
	for _, sl := range slots {
		slotsByCourse[sl.CourseID] = append(slotsByCourse[sl.CourseID], sl)
	}
	return courses, slotsByCourse, nil
}

func toTimetableResponse(t *model.Timetable) dto.TimetableResponse {
	return dto.TimetableResponse{
		ID:        t.ID,
		Name:      t.Name,
		Year:      t.Year,
		Semester:  t.Semester,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}
