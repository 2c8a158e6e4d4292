package controller

import (
	"strconv"

	"growth_journal_backend/internal/service"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	GamificationService *service.GamificationService
	PointsService       *service.PointsHistoryService
}

func NewGamificationController(gamificationService *service.GamificationService, pointsService *service.PointsHistoryService) *GamificationController {
	return &GamificationController{
		GamificationService: gamificationService,
		PointsService:       pointsService,
	}
}

// Panel godoc
// @Summary 游戏化面板
// @Description 积分、等级、升级进度、连续天数与成就解锁状态，全部现场重算
// @Tags 游戏化
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Panel}
// @Router /api/gamification/panel [get]
func (c *GamificationController) Panel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	panel, err := c.GamificationService.GetPanel(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, panel)
}

// Achievements godoc
// @Summary 成就列表
// @Tags 游戏化
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.AchievementStatus}
// @Router /api/gamification/achievements [get]
func (c *GamificationController) Achievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.GamificationService.CheckAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// PointsHistory godoc
// @Summary 积分流水
// @Description 只读流水，按时间倒序；权威总分以面板为准
// @Tags 游戏化
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "数量上限，默认50"
// @Success 200 {object} util.Response{data=[]model.PointsHistory}
// @Router /api/gamification/points/history [get]
func (c *GamificationController) PointsHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	entries, err := c.PointsService.List(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Refresh godoc
// @Summary 手动刷新统计
// @Description 同步重算积分、等级、连续天数并写回用户行
// @Tags 游戏化
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/gamification/refresh [post]
func (c *GamificationController) Refresh(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.GamificationService.RefreshUserStats(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
