// sync 一次性同步指定学期的课程目录，供运维脚本与首次部署使用。
//
//	go run ./cmd/sync -year 2025 -semester 2
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"coursebook/config"
	"coursebook/internal/repository"
	"coursebook/internal/service"
	"coursebook/pkg/database"
	applogger "coursebook/pkg/logger"
	"coursebook/pkg/redis"
	"coursebook/pkg/sugang"
)

func main() {
	year := flag.Int("year", 0, "学年，例如 2025")
	semester := flag.Int("semester", 0, "学期：1=1학기 2=2학기 3=여름학기 4=겨울학기")
	configPath := flag.String("config", os.Getenv("CATALOG_CONFIG"), "配置文件路径")
	flag.Parse()

	if *year <= 0 || *semester < 1 || *semester > 4 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	os.Exit(run(cfg, logger, *year, *semester))
}

func run(cfg *config.Config, logger *zap.Logger, year, semester int) int {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Error("数据库连接失败", zap.Error(err))
		return 1
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("获取底层 sql.DB 失败", zap.Error(err))
		return 1
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Error("数据库迁移失败", zap.Error(err))
		return 1
	}

	var locker service.Locker
	if rdb, err := redis.NewClient(&cfg.Redis, logger); err != nil {
		logger.Warn("Redis 连接失败，将不加锁同步", zap.Error(err))
	} else {
		defer rdb.Close()
		locker = rdb
	}

	syncSvc := service.NewCatalogSyncService(cfg, repository.NewRepository(db), sugang.NewClient(&cfg.Catalog, logger), locker, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n, err := syncSvc.Synchronize(ctx, year, semester)
	if err != nil {
		if errors.Is(err, service.ErrSyncInProgress) {
			logger.Warn("该学期正在同步中，本次退出")
			return 3
		}
		logger.Error("同步失败", zap.Error(err))
		return 1
	}

	fmt.Printf("%d-%d: 已同步 %d 门课程\n", year, semester, n)
	return 0
}
