package controller

import (
	"errors"
	"strconv"
	"time"

	"growth_journal_backend/internal/service"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecordController struct {
	RecordService *service.DailyRecordService
}

func NewRecordController(recordService *service.DailyRecordService) *RecordController {
	return &RecordController{RecordService: recordService}
}

// Save godoc
// @Summary 保存每日记录
// @Description 按日期幂等保存，当天已有记录时覆盖
// @Tags 每日记录
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SaveRecordInput true "记录内容"
// @Success 200 {object} util.Response{data=model.DailyRecord} "更新成功"
// @Success 201 {object} util.Response{data=model.DailyRecord} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/records [post]
func (c *RecordController) Save(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.SaveRecordInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, created, err := c.RecordService.Save(claims.UserID, &input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if created {
		util.Created(ctx, record)
		return
	}
	util.Success(ctx, record)
}

// List godoc
// @Summary 最近记录列表
// @Tags 每日记录
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "数量上限，默认30"
// @Success 200 {object} util.Response{data=[]model.DailyRecord}
// @Router /api/records [get]
func (c *RecordController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "30"))
	records, err := c.RecordService.List(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// GetByDate godoc
// @Summary 查询某天的记录
// @Tags 每日记录
// @Produce  json
// @Security BearerAuth
// @Param   date path string true "日期 2006-01-02"
// @Success 200 {object} util.Response{data=model.DailyRecord}
// @Failure 404 {object} util.Response "当天没有记录"
// @Router /api/records/{date} [get]
func (c *RecordController) GetByDate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	date, err := time.Parse("2006-01-02", ctx.Param("date"))
	if err != nil {
		util.BadRequest(ctx, "日期格式无效")
		return
	}

	record, err := c.RecordService.GetByDate(claims.UserID, date)
	if err != nil {
		if errors.Is(err, util.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Analytics godoc
// @Summary 记录统计分析
// @Description 最近N天的均值、目标完成数与连续天数
// @Tags 每日记录
// @Produce  json
// @Security BearerAuth
// @Param   days query int false "统计天数，默认30"
// @Success 200 {object} util.Response{data=service.RecordAnalytics}
// @Router /api/records/analytics [get]
func (c *RecordController) Analytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	analytics, err := c.RecordService.Analytics(claims.UserID, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// Delete godoc
// @Summary 删除某天的记录
// @Tags 每日记录
// @Produce  json
// @Security BearerAuth
// @Param   date path string true "日期 2006-01-02"
// @Success 200 {object} util.Response
// @Router /api/records/{date} [delete]
func (c *RecordController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	date, err := time.Parse("2006-01-02", ctx.Param("date"))
	if err != nil {
		util.BadRequest(ctx, "日期格式无效")
		return
	}

	if err := c.RecordService.DeleteByDate(claims.UserID, date); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
