package repository

import (
	"growth_journal_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type FocusSessionRepository struct {
	DB *gorm.DB
}

func NewFocusSessionRepository(db *gorm.DB) *FocusSessionRepository {
	return &FocusSessionRepository{DB: db}
}

func (r *FocusSessionRepository) Create(session *model.FocusSession) error {
	return r.DB.Create(session).Error
}

func (r *FocusSessionRepository) FindBetween(userID uint, start, end time.Time) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	err := r.DB.Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, start, end).
		Order("started_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *FocusSessionRepository) FindRecent(userID uint, limit int) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	err := r.DB.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
