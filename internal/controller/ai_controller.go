package controller

import (
	"strconv"

	"growth_journal_backend/internal/service"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	InsightService *service.InsightService
	ReportService  *service.ReportService
}

func NewAIController(insightService *service.InsightService, reportService *service.ReportService) *AIController {
	return &AIController{
		InsightService: insightService,
		ReportService:  reportService,
	}
}

// Analyze godoc
// @Summary AI分析
// @Description 分析最近14天的记录并生成洞察。AI不可用时自动降级到本地规则分析，接口不报错
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.AnalysisResult}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/ai/analyze [post]
func (c *AIController) Analyze(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.InsightService.Analyze(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Plan godoc
// @Summary 今日个性化计划
// @Description 当天结果有缓存。AI不可用时返回本地模板计划
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PlanResult}
// @Router /api/ai/plan [post]
func (c *AIController) Plan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ReportService.DailyPlan(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Insights godoc
// @Summary 洞察列表
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "数量上限，默认20"
// @Param   unread query bool false "只看未读"
// @Success 200 {object} util.Response{data=[]model.AIInsight}
// @Router /api/ai/insights [get]
func (c *AIController) Insights(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	unreadOnly := ctx.Query("unread") == "true"

	insights, err := c.InsightService.List(claims.UserID, limit, unreadOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, insights)
}

// MarkRead godoc
// @Summary 标记洞察已读
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "洞察ID"
// @Success 200 {object} util.Response
// @Router /api/ai/insights/{id}/read [put]
func (c *AIController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.InsightService.MarkRead(ctx.Param("id"), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MarkAllRead godoc
// @Summary 全部标记已读
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/ai/insights/read-all [put]
func (c *AIController) MarkAllRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.InsightService.MarkAllRead(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteInsight godoc
// @Summary 删除洞察
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "洞察ID"
// @Success 200 {object} util.Response
// @Router /api/ai/insights/{id} [delete]
func (c *AIController) DeleteInsight(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.InsightService.Delete(ctx.Param("id"), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
