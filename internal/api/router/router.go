package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursebook/config"
	"coursebook/internal/api/handler"
	"coursebook/internal/api/middleware"
	"coursebook/pkg/jwt"
	"coursebook/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时 Token 黑名单与限流降级为放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 课程目录（公开）
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.Search)
			courses.GET("/:id", h.Course.GetByID)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			// 课程同步（管理员，限流）
			authorized.POST("/courses/fetch",
				middleware.RoleAuth("admin"),
				middleware.RateLimit(rdb, cfg.RateLimit.SyncLimit, cfg.RateLimit.SyncWindow, logger),
				h.Course.Fetch,
			)

			// 课表模块（仅本人）
			timetables := authorized.Group("/timetables")
			{
				timetables.POST("", h.Timetable.Create)
				timetables.GET("", h.Timetable.List)
				timetables.GET("/:id", h.Timetable.Get)
				timetables.PATCH("/:id", h.Timetable.Update)
				timetables.DELETE("/:id", h.Timetable.Delete)
				timetables.POST("/:id/courses", h.Timetable.AddCourse)
				timetables.DELETE("/:id/courses/:courseId", h.Timetable.RemoveCourse)
				timetables.GET("/:id/export.xlsx", h.Export.ExportXLSX)
				timetables.GET("/:id/export.ics", h.Export.ExportICS)
			}
		}
	}

	return r
}
