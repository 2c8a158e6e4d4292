package service

import (
	"time"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/repository"
)

// LogFocusInput 专注时段写入字段
type LogFocusInput struct {
	TaskTitle      string    `json:"taskTitle" binding:"required,max=255"`
	PlannedMinutes int       `json:"plannedMinutes" binding:"required,min=1,max=480"`
	ActualMinutes  int       `json:"actualMinutes" binding:"min=0,max=480"`
	IsSuccess      bool      `json:"isSuccess"`
	Notes          string    `json:"notes"`
	StartedAt      time.Time `json:"startedAt" binding:"required"`
	EndedAt        time.Time `json:"endedAt"`
}

// DayMinutes 某天的专注分钟数
type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// FocusService 专注时段记录与统计
type FocusService struct {
	sessions *repository.FocusSessionRepository
	ledger   *PointsHistoryService
}

func NewFocusService(sessions *repository.FocusSessionRepository, ledger *PointsHistoryService) *FocusService {
	return &FocusService{sessions: sessions, ledger: ledger}
}

// LogSession 记录一次专注时段，成功完成的时段在流水里留痕
func (s *FocusService) LogSession(userID uint, input *LogFocusInput) (*model.FocusSession, error) {
	session := &model.FocusSession{
		UserID:         userID,
		TaskTitle:      input.TaskTitle,
		PlannedMinutes: input.PlannedMinutes,
		ActualMinutes:  input.ActualMinutes,
		IsSuccess:      input.IsSuccess,
		Notes:          input.Notes,
		StartedAt:      input.StartedAt,
		EndedAt:        input.EndedAt,
	}
	if session.EndedAt.IsZero() {
		session.EndedAt = session.StartedAt.Add(time.Duration(input.ActualMinutes) * time.Minute)
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	if session.IsSuccess {
		s.ledger.Append(userID, 3, model.PointsSourceManual, session.ID, "完成专注会话")
	}

	return session, nil
}

// TodayMinutes 今天的专注总分钟数
func (s *FocusService) TodayMinutes(userID uint) (int, error) {
	start := model.Midnight(time.Now())
	end := start.AddDate(0, 0, 1)

	sessions, err := s.sessions.FindBetween(userID, start, end)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, sess := range sessions {
		total += sess.ActualMinutes
	}
	return total, nil
}

// Trend 最近N天每天的专注分钟数，无记录的天也占位为0
func (s *FocusService) Trend(userID uint, days int) ([]DayMinutes, error) {
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}
	end := model.Midnight(time.Now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	sessions, err := s.sessions.FindBetween(userID, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, days)
	for _, sess := range sessions {
		byDay[model.DateKey(sess.StartedAt)] += sess.ActualMinutes
	}

	out := make([]DayMinutes, 0, days)
	for cursor := start; cursor.Before(end); cursor = cursor.AddDate(0, 0, 1) {
		key := model.DateKey(cursor)
		out = append(out, DayMinutes{Date: key, Minutes: byDay[key]})
	}
	return out, nil
}

func (s *FocusService) Recent(userID uint, limit int) ([]model.FocusSession, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.sessions.FindRecent(userID, limit)
}
