package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"coursebook/config"
	"coursebook/internal/service"
)

// termTimeout 单个学期同步的最长耗时
const termTimeout = 10 * time.Minute

// Scheduler 定时同步课程目录
//
// 按 sync.cron 触发，依次同步 sync.terms 中的每个学期。
// 上一轮未结束时跳过本轮；单个学期失败只记录日志，不影响其他学期。
type Scheduler struct {
	cron    *cron.Cron
	syncSvc service.CatalogSyncService
	terms   []config.TermConfig
	logger  *zap.Logger
}

// New 创建调度器并注册任务，cron 表达式非法时返回错误
func New(cfg *config.SyncConfig, syncSvc service.CatalogSyncService, logger *zap.Logger) (*Scheduler, error) {
	cronLogger := zapCronLogger{logger.Sugar()}
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		syncSvc: syncSvc,
		terms:   cfg.Terms,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(cfg.Cron, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("注册同步任务失败 (%q): %w", cfg.Cron, err)
	}
	return s, nil
}

// Start 启动调度（非阻塞）
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("课程同步调度已启动", zap.Int("terms", len(s.terms)))
}

// Stop 停止调度，等待进行中的任务结束或 ctx 到期
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("课程同步调度已停止")
	case <-ctx.Done():
		s.logger.Warn("等待同步任务结束超时")
	}
}

// RunOnce 依次同步所有配置的学期，返回成功写入的课程总数
func (s *Scheduler) RunOnce(ctx context.Context) int {
	total := 0
	for _, term := range s.terms {
		if ctx.Err() != nil {
			return total
		}
		total += s.runTerm(ctx, term)
	}
	return total
}

func (s *Scheduler) runTerm(ctx context.Context, term config.TermConfig) int {
	ctx, cancel := context.WithTimeout(ctx, termTimeout)
	defer cancel()

	log := s.logger.With(zap.Int("year", term.Year), zap.Int("semester", term.Semester))
	n, err := s.syncSvc.Synchronize(ctx, term.Year, term.Semester)
	switch {
	case errors.Is(err, service.ErrSyncInProgress):
		log.Info("该学期正在由其他实例同步，跳过")
	case err != nil:
		log.Error("定时同步失败", zap.Error(err))
	default:
		log.Info("定时同步完成", zap.Int("count", n))
	}
	return n
}

// ── cron 日志适配 ──

type zapCronLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
