package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"coursebook/internal/classtime"
	"coursebook/internal/dto"
	"coursebook/internal/model"
	"coursebook/internal/repository"
)

// CourseService 课程检索业务接口
type CourseService interface {
	// Search 按学年学期与关键字做游标分页检索
	Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CursorPage[dto.CourseResponse], error)
	// GetByID 课程详情（含上课时段）
	GetByID(ctx context.Context, id int64) (*dto.CourseDetailResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Search ──────────────────────

// Search 多取一条用于判断是否还有下一页，下一页游标为本页最后一条的 id
func (s *courseService) Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CursorPage[dto.CourseResponse], error) {
	if req.Year <= 0 || !model.ValidSemester(req.Semester) {
		return nil, ErrInvalidTerm
	}
	limit := req.GetSize()

	courses, err := s.repo.Course.Search(ctx, repository.CourseSearchParams{
		Year:     req.Year,
		Semester: req.Semester,
		Keyword:  strings.TrimSpace(req.Query),
		Cursor:   req.Cursor,
		Limit:    limit + 1,
	})
	if err != nil {
		s.logger.Error("检索课程失败", zap.Error(err))
		return nil, err
	}

	page := &dto.CursorPage[dto.CourseResponse]{}
	if len(courses) > limit {
		courses = courses[:limit]
		page.HasNext = true
		last := courses[len(courses)-1].ID
		page.NextCursor = &last
	}

	page.List = make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		page.List = append(page.List, toCourseResponse(&courses[i]))
	}
	return page, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id int64) (*dto.CourseDetailResponse, error) {
	course, err := s.repo.Course.GetByIDWithSlots(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.CourseDetailResponse{
		CourseResponse: toCourseResponse(course),
		MeetingSlots:   toSlotResponses(course.MeetingSlots),
	}, nil
}

// ── 转换 ──

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:             c.ID,
		Year:           c.Year,
		Semester:       c.Semester,
		CourseNumber:   c.CourseNumber,
		SectionNumber:  c.SectionNumber,
		Title:          c.Title,
		Subtitle:       c.Subtitle,
		Credit:         c.Credit,
		Classification: c.Classification,
		College:        c.College,
		Department:     c.Department,
		AcademicTrack:  c.AcademicTrack,
		AcademicYear:   c.AcademicYear,
		Instructor:     c.Instructor,
	}
}

func toSlotResponses(slots []model.MeetingSlot) []dto.MeetingSlotResponse {
	result := make([]dto.MeetingSlotResponse, 0, len(slots))
	for _, sl := range slots {
		result = append(result, dto.MeetingSlotResponse{
			DayOfWeek:   sl.DayOfWeek,
			StartMinute: sl.StartMinute,
			EndMinute:   sl.EndMinute,
			StartTime:   classtime.FormatMinutes(sl.StartMinute),
			EndTime:     classtime.FormatMinutes(sl.EndMinute),
			Location:    sl.Location,
		})
	}
	return result
}

// toClassSlots 数据库时段 → 冲突检测用时段
func toClassSlots(slots []model.MeetingSlot) []classtime.Slot {
	result := make([]classtime.Slot, 0, len(slots))
	for _, sl := range slots {
		result = append(result, classtime.Slot{
			Day:      sl.DayOfWeek,
			Start:    sl.StartMinute,
			End:      sl.EndMinute,
			Location: sl.Location,
		})
	}
	return result
}
