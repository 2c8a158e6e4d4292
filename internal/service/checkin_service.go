package service

import (
	"errors"
	"time"

	"growth_journal_backend/internal/model"

	"gorm.io/gorm"
)

type checkinStore interface {
	Create(checkin *model.Checkin) error
	FindByUserAndDate(userID uint, date time.Time) (*model.Checkin, error)
	DatesBetween(userID uint, start, end time.Time) ([]time.Time, error)
}

// CheckinService 每日签到。同一用户同一天只产生一条记录，
// (user_id, date) 唯一索引兜底并发竞争
type CheckinService struct {
	checkins     checkinStore
	gamification *GamificationService
	ledger       *PointsHistoryService
}

func NewCheckinService(checkins checkinStore, gamification *GamificationService, ledger *PointsHistoryService) *CheckinService {
	return &CheckinService{
		checkins:     checkins,
		gamification: gamification,
		ledger:       ledger,
	}
}

// CheckIn 为用户签到。返回当天的签到记录和是否为本次新建。
// 重复签到不是错误，返回已有记录且不重复发奖
func (s *CheckinService) CheckIn(userID uint) (*model.Checkin, bool, error) {
	today := time.Now()

	existing, err := s.checkins.FindByUserAndDate(userID, today)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	checkin := &model.Checkin{
		UserID: userID,
		Date:   model.Midnight(today),
	}
	if err := s.checkins.Create(checkin); err != nil {
		// 并发请求同时通过了存在性检查，唯一索引拦下后者，按已签到处理
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.checkins.FindByUserAndDate(userID, today)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.ledger.Append(userID, 2, model.PointsSourceCheckin, checkin.ID, "每日签到")
	s.gamification.RefreshUserStatsAsync(userID)

	return checkin, true, nil
}

// TodayStatus 今天是否已签到
func (s *CheckinService) TodayStatus(userID uint) (bool, error) {
	_, err := s.checkins.FindByUserAndDate(userID, time.Now())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Calendar 日期范围内的签到日期，用于连续打卡日历展示
func (s *CheckinService) Calendar(userID uint, start, end time.Time) ([]string, error) {
	dates, err := s.checkins.DatesBetween(userID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, model.DateKey(d))
	}
	return out, nil
}
