package repository

import (
	"growth_journal_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	DB *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{DB: db}
}

func (r *CheckinRepository) Create(checkin *model.Checkin) error {
	return r.DB.Create(checkin).Error
}

// FindByUserAndDate 检查用户在指定日期是否已签到
func (r *CheckinRepository) FindByUserAndDate(userID uint, date time.Time) (*model.Checkin, error) {
	var checkin model.Checkin
	day := model.Midnight(date)
	err := r.DB.Where("user_id = ? AND date = ?", userID, day).First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *CheckinRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Checkin{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DatesBetween 日期范围内的签到日期列表，用于streak合并计算与日历展示
func (r *CheckinRepository) DatesBetween(userID uint, start, end time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.DB.Model(&model.Checkin{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, model.Midnight(start), model.Midnight(end)).
		Order("date DESC").
		Pluck("date", &dates).Error
	return dates, err
}
