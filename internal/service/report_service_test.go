package service

import (
	"strings"
	"testing"

	"growth_journal_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBuildLocalPlan(t *testing.T) {
	records := []model.DailyRecord{
		{MoodScore: 7, EnergyLevel: 4, ProductivityScore: 5, GoalsCompleted: 1},
		{MoodScore: 6, EnergyLevel: 5, ProductivityScore: 6, GoalsCompleted: 2},
	}
	goals := []model.Goal{
		{Title: "每天阅读30分钟", Category: "学习", Priority: model.PriorityHigh, Progress: 40},
	}

	plan := buildLocalPlan(records, goals)
	assert.NotEmpty(t, plan)
	assert.Contains(t, plan, "今日个性化计划")
	assert.Contains(t, plan, "每天阅读30分钟")
	// 低精力走保守安排
	assert.Contains(t, plan, "避免长时间高强度专注")

	// 同样输入输出一致
	assert.Equal(t, plan, buildLocalPlan(records, goals))
}

func TestBuildLocalPlan_NoActiveGoals(t *testing.T) {
	records := []model.DailyRecord{
		{MoodScore: 8, EnergyLevel: 8, ProductivityScore: 8},
	}
	plan := buildLocalPlan(records, nil)
	assert.Contains(t, plan, "暂无活跃目标")
	assert.Contains(t, plan, "深度工作")
}

func TestWelcomePlan(t *testing.T) {
	plan := welcomePlan()
	assert.Contains(t, plan, "欢迎开始记录")
	assert.True(t, strings.Count(plan, "\n") >= 4)
}

func TestAnalyzeTrends(t *testing.T) {
	t.Run("数据不足", func(t *testing.T) {
		records := []model.DailyRecord{{MoodScore: 5}}
		assert.Equal(t, "数据不足以分析趋势", analyzeTrends(records))
	})

	t.Run("输出均值", func(t *testing.T) {
		records := []model.DailyRecord{
			{MoodScore: 6, EnergyLevel: 6, ProductivityScore: 6},
			{MoodScore: 8, EnergyLevel: 8, ProductivityScore: 8},
			{MoodScore: 7, EnergyLevel: 7, ProductivityScore: 7},
		}
		trends := analyzeTrends(records)
		assert.Contains(t, trends, "平均情绪: 7.0/10")
		assert.Contains(t, trends, "平均精力: 7.0/10")
		assert.Contains(t, trends, "平均生产力: 7.0/10")
	})
}

func TestWeeklySummary(t *testing.T) {
	t.Run("无记录", func(t *testing.T) {
		summary := weeklySummary(&WeeklyReport{})
		assert.Contains(t, summary, "还没有记录")
	})

	t.Run("有记录含统计", func(t *testing.T) {
		report := &WeeklyReport{
			TotalRecords:    5,
			CheckinDays:     6,
			AvgMood:         7.2,
			AvgEnergy:       6.8,
			AvgProductivity: 7.0,
			GoalsCompleted:  4,
			BestDay:         "2026-08-27",
			StreakCount:     3,
		}
		summary := weeklySummary(report)
		assert.Contains(t, summary, "记录5天")
		assert.Contains(t, summary, "2026-08-27")
		assert.Contains(t, summary, "还差4天")
	})

	t.Run("连续超过一周给鼓励", func(t *testing.T) {
		report := &WeeklyReport{TotalRecords: 7, StreakCount: 10}
		summary := weeklySummary(report)
		assert.Contains(t, summary, "连续坚持10天")
	})
}

func TestBuildPlanPrompt(t *testing.T) {
	records := []model.DailyRecord{
		{MoodScore: 6, EnergyLevel: 6, ProductivityScore: 6},
		{MoodScore: 7, EnergyLevel: 7, ProductivityScore: 7},
		{MoodScore: 8, EnergyLevel: 8, ProductivityScore: 8},
	}
	goals := []model.Goal{{Title: "学会游泳", Status: model.GoalActive}}

	prompt := buildPlanPrompt(records, goals)
	assert.Contains(t, prompt, "学会游泳 (active)")
	assert.Contains(t, prompt, "平均情绪")

	empty := buildPlanPrompt(records, nil)
	assert.Contains(t, empty, "无特定目标")
}
