package controller

import (
	"time"

	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB        *gorm.DB
	StartedAt time.Time
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db, StartedAt: time.Now()}
}

// Health godoc
// @Summary 健康检查
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Failure 503 {object} util.Response "数据库不可用"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		util.Error(ctx, 503, "database unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"uptime": time.Since(c.StartedAt).String(),
	})
}
