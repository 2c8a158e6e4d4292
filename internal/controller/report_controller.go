package controller

import (
	"growth_journal_backend/internal/service"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Weekly godoc
// @Summary 成长周报
// @Description 近7天记录与签到的本地聚合，不依赖AI
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.WeeklyReport}
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/reports/weekly [post]
func (c *ReportController) Weekly(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.ReportService.Weekly(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
