package controller

import (
	"time"

	"growth_journal_backend/internal/service"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CheckinController struct {
	CheckinService *service.CheckinService
}

func NewCheckinController(checkinService *service.CheckinService) *CheckinController {
	return &CheckinController{CheckinService: checkinService}
}

// CheckinResponse 签到结果
// swagger:model CheckinResponse
type CheckinResponse struct {
	Date    string `json:"date"`
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// CheckIn godoc
// @Summary 每日签到
// @Description 为当前用户签到，同一天重复调用返回已有记录
// @Tags 签到
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=CheckinResponse}
// @Failure 401 {object} util.Response "未登录"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/users/checkin [post]
func (c *CheckinController) CheckIn(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	checkin, created, err := c.CheckinService.CheckIn(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	message := "今天已经签到过了"
	if created {
		message = "签到成功"
	}
	util.Success(ctx, CheckinResponse{
		Date:    checkin.Date.Format("2006-01-02"),
		Created: created,
		Message: message,
	})
}

// TodayStatus godoc
// @Summary 今日签到状态
// @Tags 签到
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/users/checkin/today [get]
func (c *CheckinController) TodayStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	checked, err := c.CheckinService.TodayStatus(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"checkedIn": checked})
}

// Calendar godoc
// @Summary 签到日历
// @Description 查询日期范围内的签到日期列表
// @Tags 签到
// @Produce  json
// @Security BearerAuth
// @Param   start query string true "开始日期 2006-01-02"
// @Param   end query string true "结束日期 2006-01-02"
// @Success 200 {object} util.Response{data=[]string}
// @Failure 400 {object} util.Response "日期格式错误"
// @Router /api/users/checkin/calendar [get]
func (c *CheckinController) Calendar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	start, err := time.Parse("2006-01-02", ctx.Query("start"))
	if err != nil {
		util.BadRequest(ctx, "开始日期格式无效")
		return
	}
	end, err := time.Parse("2006-01-02", ctx.Query("end"))
	if err != nil {
		util.BadRequest(ctx, "结束日期格式无效")
		return
	}

	dates, err := c.CheckinService.Calendar(claims.UserID, start, end)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dates)
}
