package repository

import (
	"growth_journal_backend/internal/model"

	"gorm.io/gorm"
)

type AIInsightRepository struct {
	DB *gorm.DB
}

func NewAIInsightRepository(db *gorm.DB) *AIInsightRepository {
	return &AIInsightRepository{DB: db}
}

func (r *AIInsightRepository) Create(insight *model.AIInsight) error {
	return r.DB.Create(insight).Error
}

func (r *AIInsightRepository) ListByUser(userID uint, limit int, unreadOnly bool) ([]model.AIInsight, error) {
	query := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var insights []model.AIInsight
	err := query.Find(&insights).Error
	return insights, err
}

func (r *AIInsightRepository) MarkRead(id string, userID uint) error {
	return r.DB.Model(&model.AIInsight{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *AIInsightRepository) MarkAllRead(userID uint) error {
	return r.DB.Model(&model.AIInsight{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *AIInsightRepository) Delete(id string, userID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.AIInsight{}).Error
}
