package controller

import (
	"strconv"

	"growth_journal_backend/internal/service"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FocusController struct {
	FocusService *service.FocusService
}

func NewFocusController(focusService *service.FocusService) *FocusController {
	return &FocusController{FocusService: focusService}
}

// Log godoc
// @Summary 记录专注时段
// @Tags 专注
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.LogFocusInput true "专注时段"
// @Success 201 {object} util.Response{data=model.FocusSession}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/focus/sessions [post]
func (c *FocusController) Log(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.LogFocusInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.FocusService.LogSession(claims.UserID, &input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// Today godoc
// @Summary 今日专注分钟数
// @Tags 专注
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/focus/today [get]
func (c *FocusController) Today(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	minutes, err := c.FocusService.TodayMinutes(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"minutes": minutes})
}

// Trend godoc
// @Summary 专注趋势
// @Description 最近N天每天的专注分钟数
// @Tags 专注
// @Produce  json
// @Security BearerAuth
// @Param   days query int false "天数，默认7"
// @Success 200 {object} util.Response{data=[]service.DayMinutes}
// @Router /api/focus/trend [get]
func (c *FocusController) Trend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "7"))
	trend, err := c.FocusService.Trend(claims.UserID, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trend)
}

// Recent godoc
// @Summary 最近专注时段
// @Tags 专注
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "数量上限，默认20"
// @Success 200 {object} util.Response{data=[]model.FocusSession}
// @Router /api/focus/sessions [get]
func (c *FocusController) Recent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	sessions, err := c.FocusService.Recent(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}
