package repository

import (
	"growth_journal_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type DailyRecordRepository struct {
	DB *gorm.DB
}

func NewDailyRecordRepository(db *gorm.DB) *DailyRecordRepository {
	return &DailyRecordRepository{DB: db}
}

func (r *DailyRecordRepository) Create(record *model.DailyRecord) error {
	return r.DB.Create(record).Error
}

func (r *DailyRecordRepository) Update(record *model.DailyRecord) error {
	return r.DB.Save(record).Error
}

// FindByUserAndDate 查询用户某天的记录，不存在时返回 gorm.ErrRecordNotFound
func (r *DailyRecordRepository) FindByUserAndDate(userID uint, date time.Time) (*model.DailyRecord, error) {
	var record model.DailyRecord
	day := model.Midnight(date)
	err := r.DB.Where("user_id = ? AND date = ?", userID, day).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindRecent 最近的记录，按日期倒序
func (r *DailyRecordRepository) FindRecent(userID uint, limit int) ([]model.DailyRecord, error) {
	var records []model.DailyRecord
	err := r.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *DailyRecordRepository) FindAllByUser(userID uint) ([]model.DailyRecord, error) {
	var records []model.DailyRecord
	err := r.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *DailyRecordRepository) FindByDateRange(userID uint, start, end time.Time) ([]model.DailyRecord, error) {
	var records []model.DailyRecord
	err := r.DB.Where("user_id = ? AND date BETWEEN ? AND ?", userID, model.Midnight(start), model.Midnight(end)).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

// DatesBetween 日期范围内有记录的日期列表，用于streak合并计算
func (r *DailyRecordRepository) DatesBetween(userID uint, start, end time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.DB.Model(&model.DailyRecord{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, model.Midnight(start), model.Midnight(end)).
		Order("date DESC").
		Pluck("date", &dates).Error
	return dates, err
}

func (r *DailyRecordRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DailyRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *DailyRecordRepository) DeleteByUserAndDate(userID uint, date time.Time) error {
	return r.DB.Where("user_id = ? AND date = ?", userID, model.Midnight(date)).Delete(&model.DailyRecord{}).Error
}
