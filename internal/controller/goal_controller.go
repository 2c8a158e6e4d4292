package controller

import (
	"errors"

	"growth_journal_backend/internal/service"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// Create godoc
// @Summary 创建目标
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateGoalInput true "目标内容"
// @Success 201 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/goals [post]
func (c *GoalController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateGoalInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.Create(claims.UserID, &input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, goal)
}

// List godoc
// @Summary 目标列表
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Param   status query string false "状态过滤 active/completed/paused"
// @Success 200 {object} util.Response{data=[]model.Goal}
// @Router /api/goals [get]
func (c *GoalController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	goals, err := c.GoalService.List(claims.UserID, ctx.Query("status"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goals)
}

// Get godoc
// @Summary 目标详情
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "目标ID"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [get]
func (c *GoalController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	goal, err := c.GoalService.Get(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// Update godoc
// @Summary 更新目标
// @Description 进度达到100自动标记完成
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "目标ID"
// @Param   body body service.UpdateGoalInput true "更新字段"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [put]
func (c *GoalController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateGoalInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.Update(ctx.Param("id"), claims.UserID, &input)
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// Analytics godoc
// @Summary 目标统计
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.GoalAnalytics}
// @Router /api/goals/analytics [get]
func (c *GoalController) Analytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	analytics, err := c.GoalService.Analytics(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// Delete godoc
// @Summary 删除目标
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "目标ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [delete]
func (c *GoalController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.GoalService.Delete(ctx.Param("id"), claims.UserID); err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
