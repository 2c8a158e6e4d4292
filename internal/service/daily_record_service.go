package service

import (
	"errors"
	"fmt"
	"time"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/util"

	"gorm.io/gorm"
)

// SaveRecordInput 每日记录的写入字段
type SaveRecordInput struct {
	Date              string   `json:"date" binding:"required" example:"2026-08-29"`
	MoodScore         int      `json:"moodScore" binding:"required,min=1,max=10"`
	EnergyLevel       int      `json:"energyLevel" binding:"required,min=1,max=10"`
	ProductivityScore int      `json:"productivityScore" binding:"required,min=1,max=10"`
	GoalsCompleted    int      `json:"goalsCompleted" binding:"min=0"`
	GratitudeNotes    string   `json:"gratitudeNotes"`
	Reflections       string   `json:"reflections"`
	Achievements      []string `json:"achievements"`
	Challenges        []string `json:"challenges"`
}

// RecordAnalytics 记录分析数据
type RecordAnalytics struct {
	Days               int     `json:"days"`
	TotalRecords       int     `json:"totalRecords"`
	AvgMood            float64 `json:"avgMood"`
	AvgEnergy          float64 `json:"avgEnergy"`
	AvgProductivity    float64 `json:"avgProductivity"`
	TotalGoalsComplete int     `json:"totalGoalsCompleted"`
	StreakCount        int     `json:"streakCount"`
}

type dailyRecordStore interface {
	Create(record *model.DailyRecord) error
	Update(record *model.DailyRecord) error
	FindByUserAndDate(userID uint, date time.Time) (*model.DailyRecord, error)
	FindRecent(userID uint, limit int) ([]model.DailyRecord, error)
	FindByDateRange(userID uint, start, end time.Time) ([]model.DailyRecord, error)
	DeleteByUserAndDate(userID uint, date time.Time) error
}

// DailyRecordService 每日记录，按 (user, date) 幂等保存
type DailyRecordService struct {
	records      dailyRecordStore
	gamification *GamificationService
	ledger       *PointsHistoryService
}

func NewDailyRecordService(records dailyRecordStore, gamification *GamificationService, ledger *PointsHistoryService) *DailyRecordService {
	return &DailyRecordService{
		records:      records,
		gamification: gamification,
		ledger:       ledger,
	}
}

// Save 保存某天的记录：当天已有记录则覆盖字段，否则新建。
// 只有新建才追加积分流水，避免反复编辑刷流水；权威积分无论如何都会重算
func (s *DailyRecordService) Save(userID uint, input *SaveRecordInput) (*model.DailyRecord, bool, error) {
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, false, fmt.Errorf("日期格式无效: %w", err)
	}

	existing, err := s.records.FindByUserAndDate(userID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing != nil {
		existing.MoodScore = input.MoodScore
		existing.EnergyLevel = input.EnergyLevel
		existing.ProductivityScore = input.ProductivityScore
		existing.GoalsCompleted = input.GoalsCompleted
		existing.GratitudeNotes = input.GratitudeNotes
		existing.Reflections = input.Reflections
		existing.Achievements = input.Achievements
		existing.Challenges = input.Challenges
		if err := s.records.Update(existing); err != nil {
			return nil, false, err
		}
		s.gamification.RefreshUserStatsAsync(userID)
		return existing, false, nil
	}

	record := &model.DailyRecord{
		UserID:            userID,
		Date:              model.Midnight(date),
		MoodScore:         input.MoodScore,
		EnergyLevel:       input.EnergyLevel,
		ProductivityScore: input.ProductivityScore,
		GoalsCompleted:    input.GoalsCompleted,
		GratitudeNotes:    input.GratitudeNotes,
		Reflections:       input.Reflections,
		Achievements:      input.Achievements,
		Challenges:        input.Challenges,
	}
	if err := s.records.Create(record); err != nil {
		// 并发保存同一天，唯一索引拦截后按更新重试一次
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Save(userID, input)
		}
		return nil, false, err
	}

	s.ledger.Append(userID, RecordReward(record), model.PointsSourceRecord, record.ID, "每日记录")
	s.gamification.RefreshUserStatsAsync(userID)

	return record, true, nil
}

func (s *DailyRecordService) GetByDate(userID uint, date time.Time) (*model.DailyRecord, error) {
	record, err := s.records.FindByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *DailyRecordService) List(userID uint, limit int) ([]model.DailyRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	if limit > 100 {
		limit = 100
	}
	return s.records.FindRecent(userID, limit)
}

func (s *DailyRecordService) ListRange(userID uint, start, end time.Time) ([]model.DailyRecord, error) {
	return s.records.FindByDateRange(userID, start, end)
}

// Analytics 最近N天的记录统计
func (s *DailyRecordService) Analytics(userID uint, days int) (*RecordAnalytics, error) {
	if days <= 0 {
		days = 30
	}
	end := time.Now()
	start := end.AddDate(0, 0, -(days - 1))

	records, err := s.records.FindByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	analytics := &RecordAnalytics{
		Days:         days,
		TotalRecords: len(records),
	}

	if len(records) > 0 {
		var moodSum, energySum, prodSum int
		for _, r := range records {
			moodSum += clampScore(r.MoodScore)
			energySum += clampScore(r.EnergyLevel)
			prodSum += clampScore(r.ProductivityScore)
			if r.GoalsCompleted > 0 {
				analytics.TotalGoalsComplete += r.GoalsCompleted
			}
		}
		n := float64(len(records))
		analytics.AvgMood = float64(moodSum) / n
		analytics.AvgEnergy = float64(energySum) / n
		analytics.AvgProductivity = float64(prodSum) / n
	}

	streak, err := s.gamification.UnifiedStreak(userID, end)
	if err != nil {
		return nil, err
	}
	analytics.StreakCount = streak

	return analytics, nil
}

func (s *DailyRecordService) DeleteByDate(userID uint, date time.Time) error {
	if err := s.records.DeleteByUserAndDate(userID, date); err != nil {
		return err
	}
	s.gamification.RefreshUserStatsAsync(userID)
	return nil
}
