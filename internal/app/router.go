package app

import (
	"growth_journal_backend/docs"
	"growth_journal_backend/internal/config"
	"growth_journal_backend/internal/middleware"
	"growth_journal_backend/internal/model"
	"growth_journal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 公共路由（无需登录）
	router.POST("/api/register", c.auth.Register)
	router.POST("/api/login", c.auth.Login)

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(s.user))
	{
		authGroup.GET("/me", c.auth.Me)

		// 用户
		authGroup.GET("/users/profile", c.user.Profile)
		authGroup.PUT("/users/profile", c.user.UpdateProfile)
		authGroup.PUT("/users/password", c.user.ChangePassword)
		authGroup.POST("/users/avatar", c.user.UploadAvatar)
		authGroup.GET("/users/leaderboard", c.user.Leaderboard)

		// 签到
		authGroup.POST("/users/checkin", c.checkin.CheckIn)
		authGroup.GET("/users/checkin/today", c.checkin.TodayStatus)
		authGroup.GET("/users/checkin/calendar", c.checkin.Calendar)

		// 每日记录
		authGroup.POST("/records", c.record.Save)
		authGroup.GET("/records", c.record.List)
		authGroup.GET("/records/analytics", c.record.Analytics)
		authGroup.GET("/records/:date", c.record.GetByDate)
		authGroup.DELETE("/records/:date", c.record.Delete)

		// 目标
		authGroup.POST("/goals", c.goal.Create)
		authGroup.GET("/goals", c.goal.List)
		authGroup.GET("/goals/analytics", c.goal.Analytics)
		authGroup.GET("/goals/:id", c.goal.Get)
		authGroup.PUT("/goals/:id", c.goal.Update)
		authGroup.DELETE("/goals/:id", c.goal.Delete)

		// 专注
		authGroup.POST("/focus/sessions", c.focus.Log)
		authGroup.GET("/focus/sessions", c.focus.Recent)
		authGroup.GET("/focus/today", c.focus.Today)
		authGroup.GET("/focus/trend", c.focus.Trend)

		// 游戏化
		authGroup.GET("/gamification/panel", c.gamification.Panel)
		authGroup.GET("/gamification/achievements", c.gamification.Achievements)
		authGroup.GET("/gamification/points/history", c.gamification.PointsHistory)
		authGroup.POST("/gamification/refresh", c.gamification.Refresh)

		// AI
		authGroup.POST("/ai/analyze", c.ai.Analyze)
		authGroup.POST("/ai/plan", c.ai.Plan)
		authGroup.GET("/ai/insights", c.ai.Insights)
		authGroup.PUT("/ai/insights/read-all", c.ai.MarkAllRead)
		authGroup.PUT("/ai/insights/:id/read", c.ai.MarkRead)
		authGroup.DELETE("/ai/insights/:id", c.ai.DeleteInsight)

		// 报告
		authGroup.POST("/reports/weekly", c.report.Weekly)
	}

	// 管理员路由
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.GET("/users", c.user.List)
		adminGroup.PUT("/users/:id/disabled", c.user.SetDisabled)
		adminGroup.PUT("/users/:id/role", c.user.SetRole)
	}
}
