package service

import (
	"time"
	"unicode/utf8"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/pkg/logger"
	"growth_journal_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// RequirementType 成就条件类型
type RequirementType string

const (
	ReqStreak         RequirementType = "streak"
	ReqTotalRecords   RequirementType = "total_records"
	ReqMoodAverage    RequirementType = "mood_average"
	ReqGoalsCompleted RequirementType = "goals_completed"
	ReqSpecial        RequirementType = "special"
)

// Requirement 成就解锁条件。MoodAverage类型额外带统计窗口PeriodDays
type Requirement struct {
	Type       RequirementType `json:"type"`
	Value      float64         `json:"value"`
	PeriodDays int             `json:"periodDays,omitempty"`
}

type Achievement struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Points      int         `json:"points"`
	Requirement Requirement `json:"requirement"`
}

type AchievementStatus struct {
	Achievement
	Unlocked bool `json:"unlocked"`
}

// achievementCatalog 预定义成就列表
var achievementCatalog = []Achievement{
	{ID: "first_record", Title: "初次记录", Description: "完成第一次每日记录", Icon: "🌱", Points: 10,
		Requirement: Requirement{Type: ReqTotalRecords, Value: 1}},
	{ID: "streak_week", Title: "坚持一周", Description: "连续记录7天", Icon: "📅", Points: 50,
		Requirement: Requirement{Type: ReqStreak, Value: 7}},
	{ID: "streak_half_month", Title: "坚持半月", Description: "连续记录15天", Icon: "🔥", Points: 100,
		Requirement: Requirement{Type: ReqStreak, Value: 15}},
	{ID: "streak_month", Title: "坚持一月", Description: "连续记录30天", Icon: "💎", Points: 200,
		Requirement: Requirement{Type: ReqStreak, Value: 30}},
	{ID: "streak_hundred", Title: "百日成长", Description: "连续记录100天", Icon: "🏆", Points: 500,
		Requirement: Requirement{Type: ReqStreak, Value: 100}},
	{ID: "positive_mood", Title: "积极心态", Description: "近7天平均心情超过7分", Icon: "😊", Points: 30,
		Requirement: Requirement{Type: ReqMoodAverage, Value: 7, PeriodDays: 7}},
	{ID: "goal_master", Title: "高效达人", Description: "完成100个目标", Icon: "🎯", Points: 150,
		Requirement: Requirement{Type: ReqGoalsCompleted, Value: 100}},
	{ID: "record_master", Title: "记录达人", Description: "完成50次记录", Icon: "📝", Points: 100,
		Requirement: Requirement{Type: ReqTotalRecords, Value: 50}},
	{ID: "mood_master", Title: "情绪管理师", Description: "近30天平均心情超过8分", Icon: "🧘", Points: 100,
		Requirement: Requirement{Type: ReqMoodAverage, Value: 8, PeriodDays: 30}},
}

// AchievementCatalog 返回成就目录的拷贝
func AchievementCatalog() []Achievement {
	out := make([]Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// Aggregates 成就判定所需的活动汇总值
type Aggregates struct {
	TotalRecords   int
	Streak         int
	GoalsCompleted int
	MoodAvg7       float64
	MoodAvg30      float64
}

// AggregatesFromRecords 从按日期倒序的记录列表计算汇总值。
// 心情平均取最近N条记录（空窗口视为0，不解锁）
func AggregatesFromRecords(records []model.DailyRecord, streak int) Aggregates {
	agg := Aggregates{
		TotalRecords: len(records),
		Streak:       streak,
	}
	for _, r := range records {
		if r.GoalsCompleted > 0 {
			agg.GoalsCompleted += r.GoalsCompleted
		}
	}
	agg.MoodAvg7 = moodAverage(records, 7)
	agg.MoodAvg30 = moodAverage(records, 30)
	return agg
}

func moodAverage(records []model.DailyRecord, n int) float64 {
	if len(records) == 0 {
		return 0
	}
	if n > len(records) {
		n = len(records)
	}
	sum := 0
	for _, r := range records[:n] {
		sum += clampScore(r.MoodScore)
	}
	return float64(sum) / float64(n)
}

// clampScore 存量数据里可能有越界分值，统一夹到1-10
func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// EvaluateAchievements 根据汇总值判定全部成就的解锁状态，纯函数
func EvaluateAchievements(agg Aggregates) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(achievementCatalog))
	for _, a := range achievementCatalog {
		unlocked := false
		switch a.Requirement.Type {
		case ReqTotalRecords:
			unlocked = float64(agg.TotalRecords) >= a.Requirement.Value
		case ReqStreak:
			unlocked = float64(agg.Streak) >= a.Requirement.Value
		case ReqGoalsCompleted:
			unlocked = float64(agg.GoalsCompleted) >= a.Requirement.Value
		case ReqMoodAverage:
			switch a.Requirement.PeriodDays {
			case 7:
				unlocked = agg.MoodAvg7 >= a.Requirement.Value
			case 30:
				unlocked = agg.MoodAvg30 >= a.Requirement.Value
			}
		case ReqSpecial:
			// 运营活动预留，目录里暂时没有该类型
			unlocked = false
		}
		out = append(out, AchievementStatus{Achievement: a, Unlocked: unlocked})
	}
	return out
}

// RecordReward 单条记录的积分奖励：基础5分 + 质量奖励 + 目标完成 + 内容丰富度
func RecordReward(r *model.DailyRecord) int {
	points := 5

	if clampScore(r.MoodScore) >= 8 {
		points += 2
	}
	if clampScore(r.EnergyLevel) >= 8 {
		points += 2
	}
	if clampScore(r.ProductivityScore) >= 8 {
		points += 2
	}

	if r.GoalsCompleted > 0 {
		points += r.GoalsCompleted * 3
	}

	if len(r.Achievements) > 0 {
		points += 2
	}
	if utf8.RuneCountInString(r.Reflections) > 50 {
		points += 3
	}
	if utf8.RuneCountInString(r.GratitudeNotes) > 20 {
		points += 2
	}

	return points
}

// UserLevel 等级 = 总积分/100 + 1
func UserLevel(points int) int {
	if points < 0 {
		points = 0
	}
	return points/100 + 1
}

// PointsToNextLevel 距离下一等级还差多少积分
func PointsToNextLevel(points int) int {
	if points < 0 {
		points = 0
	}
	return UserLevel(points)*100 - points
}

// StreakFromDates 从今天起向前逐日回看，遇到第一个无活动日即停止。
// days的键为 model.DateKey 格式，lookbackDays 限制最大回看跨度
func StreakFromDates(days map[string]struct{}, today time.Time, lookbackDays int) int {
	streak := 0
	cursor := model.Midnight(today)
	for i := 0; i <= lookbackDays; i++ {
		if _, ok := days[model.DateKey(cursor)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

type recordReader interface {
	FindAllByUser(userID uint) ([]model.DailyRecord, error)
	DatesBetween(userID uint, start, end time.Time) ([]time.Time, error)
}

type checkinCounter interface {
	CountByUser(userID uint) (int64, error)
	DatesBetween(userID uint, start, end time.Time) ([]time.Time, error)
}

type gameStatsWriter interface {
	UpdateGameStats(userID uint, points, level, streak int) error
}

// GamificationService 积分/等级/连续天数/成就的权威计算入口。
// 所有结果均由活动日志现场重算，用户行上的缓存字段只用于展示
type GamificationService struct {
	users        gameStatsWriter
	records      recordReader
	checkins     checkinCounter
	lookbackDays int
}

func NewGamificationService(users gameStatsWriter, records recordReader, checkins checkinCounter, lookbackDays int) *GamificationService {
	if lookbackDays <= 0 {
		lookbackDays = 60
	}
	return &GamificationService{
		users:        users,
		records:      records,
		checkins:     checkins,
		lookbackDays: lookbackDays,
	}
}

// UnifiedStreak 合并每日记录与签到日期后计算连续天数。
// 存储层错误原样上抛，绝不静默当作0
func (s *GamificationService) UnifiedStreak(userID uint, today time.Time) (int, error) {
	end := model.Midnight(today)
	start := end.AddDate(0, 0, -s.lookbackDays)

	recordDates, err := s.records.DatesBetween(userID, start, end)
	if err != nil {
		return 0, err
	}
	checkinDates, err := s.checkins.DatesBetween(userID, start, end)
	if err != nil {
		return 0, err
	}

	days := make(map[string]struct{}, len(recordDates)+len(checkinDates))
	for _, d := range recordDates {
		days[model.DateKey(d)] = struct{}{}
	}
	for _, d := range checkinDates {
		days[model.DateKey(d)] = struct{}{}
	}

	return StreakFromDates(days, today, s.lookbackDays), nil
}

// ComputeUserPoints 从活动日志整体重算总积分：
// 记录数×5 + 每满7天连续奖励20 + 单条质量奖励 + 目标完成×3 + 签到数×2
func (s *GamificationService) ComputeUserPoints(userID uint) (int, error) {
	records, err := s.records.FindAllByUser(userID)
	if err != nil {
		return 0, err
	}
	streak, err := s.UnifiedStreak(userID, time.Now())
	if err != nil {
		return 0, err
	}

	points := len(records) * 5
	points += streak / 7 * 20

	for _, r := range records {
		if clampScore(r.MoodScore) >= 8 {
			points += 2
		}
		if clampScore(r.EnergyLevel) >= 8 {
			points += 2
		}
		if clampScore(r.ProductivityScore) >= 8 {
			points += 2
		}
		if r.GoalsCompleted > 0 {
			points += r.GoalsCompleted * 3
		}
	}

	checkinCount, err := s.checkins.CountByUser(userID)
	if err != nil {
		return 0, err
	}
	points += int(checkinCount) * 2

	return points, nil
}

// CheckAchievements 计算用户全部成就的解锁状态
func (s *GamificationService) CheckAchievements(userID uint) ([]AchievementStatus, error) {
	records, err := s.records.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.UnifiedStreak(userID, time.Now())
	if err != nil {
		return nil, err
	}
	return EvaluateAchievements(AggregatesFromRecords(records, streak)), nil
}

// RefreshUserStats 重算积分、等级、连续天数后一次性覆盖用户行。
// 任何一步失败都整体放弃本次写入，留待下次活动触发时再刷
func (s *GamificationService) RefreshUserStats(userID uint) error {
	points, err := s.ComputeUserPoints(userID)
	if err != nil {
		monitoring.StatsRefreshCounter.WithLabelValues("error").Inc()
		return err
	}
	level := UserLevel(points)
	streak, err := s.UnifiedStreak(userID, time.Now())
	if err != nil {
		monitoring.StatsRefreshCounter.WithLabelValues("error").Inc()
		return err
	}

	if err := s.users.UpdateGameStats(userID, points, level, streak); err != nil {
		monitoring.StatsRefreshCounter.WithLabelValues("error").Inc()
		return err
	}
	monitoring.StatsRefreshCounter.WithLabelValues("ok").Inc()
	return nil
}

// RefreshUserStatsAsync 后台刷新派生统计，失败只记日志不影响主流程
func (s *GamificationService) RefreshUserStatsAsync(userID uint) {
	go func() {
		if err := s.RefreshUserStats(userID); err != nil {
			logger.Log.Warn("刷新用户游戏化统计失败",
				zap.Uint("userId", userID),
				zap.Error(err))
		}
	}()
}

// Panel 游戏化面板数据：积分、等级、升级进度、连续天数、成就解锁状态
type Panel struct {
	TotalPoints       int                 `json:"totalPoints"`
	Level             int                 `json:"level"`
	PointsToNextLevel int                 `json:"pointsToNextLevel"`
	StreakCount       int                 `json:"streakCount"`
	Achievements      []AchievementStatus `json:"achievements"`
}

func (s *GamificationService) GetPanel(userID uint) (*Panel, error) {
	points, err := s.ComputeUserPoints(userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.UnifiedStreak(userID, time.Now())
	if err != nil {
		return nil, err
	}
	records, err := s.records.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	return &Panel{
		TotalPoints:       points,
		Level:             UserLevel(points),
		PointsToNextLevel: PointsToNextLevel(points),
		StreakCount:       streak,
		Achievements:      EvaluateAchievements(AggregatesFromRecords(records, streak)),
	}, nil
}
