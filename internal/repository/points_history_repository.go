package repository

import (
	"growth_journal_backend/internal/model"

	"gorm.io/gorm"
)

type PointsHistoryRepository struct {
	DB *gorm.DB
}

func NewPointsHistoryRepository(db *gorm.DB) *PointsHistoryRepository {
	return &PointsHistoryRepository{DB: db}
}

// Create 追加一条积分流水；该表从不更新或删除
func (r *PointsHistoryRepository) Create(entry *model.PointsHistory) error {
	return r.DB.Create(entry).Error
}

func (r *PointsHistoryRepository) ListByUser(userID uint, limit int) ([]model.PointsHistory, error) {
	var entries []model.PointsHistory
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
