package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/repository"
	"growth_journal_backend/pkg/logger"
	"growth_journal_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const planSystemPrompt = "你是一个专业的个人成长AI助手，专门分析用户的每日记录数据，提供个性化的洞察和建议。请用中文回复，并且回复要准确、有用、积极向上。"

// WeeklyReport 近7天的成长周报，纯本地聚合
type WeeklyReport struct {
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	TotalRecords    int     `json:"totalRecords"`
	CheckinDays     int     `json:"checkinDays"`
	AvgMood         float64 `json:"avgMood"`
	AvgEnergy       float64 `json:"avgEnergy"`
	AvgProductivity float64 `json:"avgProductivity"`
	GoalsCompleted  int     `json:"goalsCompleted"`
	BestDay         string  `json:"bestDay,omitempty"`
	StreakCount     int     `json:"streakCount"`
	Summary         string  `json:"summary"`
}

// PlanResult 今日计划。Source: ai/local/welcome/cache
type PlanResult struct {
	Plan   string `json:"plan"`
	Source string `json:"source"`
}

// ReportService 周报与今日计划
type ReportService struct {
	records      *repository.DailyRecordRepository
	checkins     *repository.CheckinRepository
	goals        *repository.GoalRepository
	ai           *AIService
	gamification *GamificationService
	rdb          *redis.Client
}

func NewReportService(
	records *repository.DailyRecordRepository,
	checkins *repository.CheckinRepository,
	goals *repository.GoalRepository,
	ai *AIService,
	gamification *GamificationService,
	rdb *redis.Client,
) *ReportService {
	return &ReportService{
		records:      records,
		checkins:     checkins,
		goals:        goals,
		ai:           ai,
		gamification: gamification,
		rdb:          rdb,
	}
}

// Weekly 生成近7天周报。全部来自本地聚合，不依赖AI
func (s *ReportService) Weekly(userID uint) (*WeeklyReport, error) {
	end := model.Midnight(time.Now())
	start := end.AddDate(0, 0, -6)

	records, err := s.records.FindByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	checkinDates, err := s.checkins.DatesBetween(userID, start, end)
	if err != nil {
		return nil, err
	}
	streak, err := s.gamification.UnifiedStreak(userID, end)
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		StartDate:    model.DateKey(start),
		EndDate:      model.DateKey(end),
		TotalRecords: len(records),
		CheckinDays:  len(checkinDates),
		StreakCount:  streak,
	}

	if len(records) > 0 {
		var moodSum, energySum, prodSum int
		bestMood := 0
		for _, r := range records {
			mood := clampScore(r.MoodScore)
			moodSum += mood
			energySum += clampScore(r.EnergyLevel)
			prodSum += clampScore(r.ProductivityScore)
			if r.GoalsCompleted > 0 {
				report.GoalsCompleted += r.GoalsCompleted
			}
			if mood > bestMood {
				bestMood = mood
				report.BestDay = model.DateKey(r.Date)
			}
		}
		n := float64(len(records))
		report.AvgMood = float64(moodSum) / n
		report.AvgEnergy = float64(energySum) / n
		report.AvgProductivity = float64(prodSum) / n
	}

	report.Summary = weeklySummary(report)
	return report, nil
}

func weeklySummary(r *WeeklyReport) string {
	if r.TotalRecords == 0 {
		return "本周还没有记录，从今天的一条小记录开始吧。"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "本周共记录%d天、签到%d天，平均情绪%.1f分、精力%.1f分、生产力%.1f分，完成目标%d个。",
		r.TotalRecords, r.CheckinDays, r.AvgMood, r.AvgEnergy, r.AvgProductivity, r.GoalsCompleted)
	if r.BestDay != "" {
		fmt.Fprintf(&sb, "%s 是本周状态最好的一天。", r.BestDay)
	}
	if r.StreakCount >= 7 {
		fmt.Fprintf(&sb, "已连续坚持%d天，继续保持！", r.StreakCount)
	} else if r.StreakCount > 0 {
		fmt.Fprintf(&sb, "当前连续%d天，距离\"坚持一周\"成就还差%d天。", r.StreakCount, 7-r.StreakCount)
	}
	return sb.String()
}

// DailyPlan 生成今日个性化计划。
// 当天结果缓存在redis里（仅展示用缓存），AI不可用时退回本地模板，
// 没有任何历史记录时返回新手欢迎计划
func (s *ReportService) DailyPlan(ctx context.Context, userID uint) (*PlanResult, error) {
	cacheKey := fmt.Sprintf("plan:%d:%s", userID, model.DateKey(time.Now()))
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return &PlanResult{Plan: cached, Source: "cache"}, nil
		}
	}

	records, err := s.records.FindRecent(userID, 7)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &PlanResult{Plan: welcomePlan(), Source: "welcome"}, nil
	}

	goals, err := s.goals.FindByUserID(userID, model.GoalActive)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{}
	if s.ai.Enabled() {
		content, aerr := s.ai.Chat(ctx, planSystemPrompt, buildPlanPrompt(records, goals))
		if aerr == nil {
			result.Plan = content
			result.Source = "ai"
		} else {
			logger.Log.Warn("AI计划生成失败，使用本地模板",
				zap.Uint("userId", userID),
				zap.Error(aerr))
		}
	}
	if result.Plan == "" {
		monitoring.AIFallbackCounter.WithLabelValues("plan").Inc()
		result.Plan = buildLocalPlan(records, goals)
		result.Source = "local"
	}

	if s.rdb != nil {
		ttl := time.Until(model.Midnight(time.Now()).AddDate(0, 0, 1))
		if ttl < time.Minute {
			ttl = time.Minute
		}
		if err := s.rdb.Set(ctx, cacheKey, result.Plan, ttl).Err(); err != nil {
			logger.Log.Warn("今日计划缓存写入失败", zap.Uint("userId", userID), zap.Error(err))
		}
	}

	return result, nil
}

func buildPlanPrompt(records []model.DailyRecord, goals []model.Goal) string {
	goalItems := make([]string, 0, len(goals))
	for _, g := range goals {
		goalItems = append(goalItems, fmt.Sprintf("%s (%s)", g.Title, g.Status))
	}
	goalsList := strings.Join(goalItems, ", ")
	if goalsList == "" {
		goalsList = "无特定目标"
	}

	return fmt.Sprintf(`基于用户的历史数据和当前目标，制定一个个性化的今日计划：

最近趋势：
%s

当前目标：%s

请提供一个结构化的今日计划，包括：
1. 优先任务（基于历史表现和目标）
2. 建议的活动安排
3. 提升情绪和精力的具体建议
4. 需要注意的事项

计划应该现实可行，符合用户的行为模式。`, analyzeTrends(records), goalsList)
}

func analyzeTrends(records []model.DailyRecord) string {
	if len(records) < 3 {
		return "数据不足以分析趋势"
	}
	recent := records
	if len(recent) > 7 {
		recent = recent[:7]
	}
	var moodSum, energySum, prodSum int
	for _, r := range recent {
		moodSum += clampScore(r.MoodScore)
		energySum += clampScore(r.EnergyLevel)
		prodSum += clampScore(r.ProductivityScore)
	}
	n := float64(len(recent))
	return fmt.Sprintf("平均情绪: %.1f/10\n平均精力: %.1f/10\n平均生产力: %.1f/10",
		float64(moodSum)/n, float64(energySum)/n, float64(prodSum)/n)
}

func welcomePlan() string {
	return "欢迎开始记录！建议今天从简单的记录开始：\n\n" +
		"1. 记录当前的情绪状态\n" +
		"2. 设定一个小目标\n" +
		"3. 记录一件值得感恩的事\n" +
		"4. 写下对今天的期待\n\n" +
		"每天的小记录会积累成大改变！"
}

// buildLocalPlan 确定性本地计划模板，和远端结果的结构保持一致
func buildLocalPlan(records []model.DailyRecord, goals []model.Goal) string {
	recent := records
	if len(recent) > 7 {
		recent = recent[:7]
	}
	var moodSum, energySum, prodSum, goalsSum int
	for _, r := range recent {
		moodSum += clampScore(r.MoodScore)
		energySum += clampScore(r.EnergyLevel)
		prodSum += clampScore(r.ProductivityScore)
		if r.GoalsCompleted > 0 {
			goalsSum += r.GoalsCompleted
		}
	}
	n := float64(len(recent))
	avgMood := float64(moodSum) / n
	avgEnergy := float64(energySum) / n
	avgProductivity := float64(prodSum) / n

	today := time.Now().Format("2006年1月2日")

	goalsLine := "- 暂无活跃目标，可添加一个今天能完成的微目标"
	if len(goals) > 0 {
		lines := make([]string, 0, len(goals))
		for _, g := range goals {
			lines = append(lines, fmt.Sprintf("- %s（%s｜优先级：%s｜进度：%d%%）",
				g.Title, orNone(g.Category), g.Priority, g.Progress))
		}
		goalsLine = strings.Join(lines, "\n")
	}

	energyAdvice := "- 安排一段深度工作（25-45分钟），配合短休息\n- 下午加入一次户外轻运动提升状态"
	if avgEnergy < 6 {
		energyAdvice = "- 今天优先安排高价值但低耗的任务，避免长时间高强度专注\n- 安排1-2次短暂散步/拉伸（每次5-10分钟）"
	}

	moodAdvice := "- 记录一件值得庆祝的小进步\n- 分享给未来的自己一句鼓励话"
	if avgMood < 6 {
		moodAdvice = "- 用3分钟做情绪标注，写下1-2条具体诱因\n- 做一条感恩记录或给朋友发条问候信息"
	}

	productivityAdvice := "- 继续保持，将关键任务前置，减少上下文切换"
	if avgProductivity < 6 {
		productivityAdvice = "- 用番茄钟（25/5）完成一个小块任务\n- 把\"大目标\"拆成3个今天能推进的步骤"
	}

	return fmt.Sprintf(`# 今日个性化计划（%s）

概览：
- 近7天 平均情绪：%.1f/10｜平均精力：%.1f/10｜平均生产力：%.1f/10
- 近7天 完成目标数：%d

## 优先任务（基于当前活跃目标）
%s

## 活动安排（建议）
- 上午：专注推进最重要的一项（30-60分钟）
- 下午：复盘与微调，处理沟通/回复类事务（30分钟）
- 晚间：10分钟日终回顾，记录今日1个亮点与1个改进点

## 提升情绪与精力
%s
%s

## 效率建议
%s

## 注意事项
- 别把计划做满：预留20%%-30%%机动时间
- 记录一次"最分心的瞬间"，帮助后续识别干扰模式

完成以上计划后，回到仪表盘勾选并记录收获，积累积分与连续天数。`,
		today, avgMood, avgEnergy, avgProductivity, goalsSum,
		goalsLine, energyAdvice, moodAdvice, productivityAdvice)
}
