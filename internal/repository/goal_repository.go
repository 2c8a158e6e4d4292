package repository

import (
	"growth_journal_backend/internal/model"

	"gorm.io/gorm"
)

type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) Create(goal *model.Goal) error {
	return r.DB.Create(goal).Error
}

func (r *GoalRepository) Update(goal *model.Goal) error {
	return r.DB.Save(goal).Error
}

func (r *GoalRepository) FindByIDAndUserID(id string, userID uint) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// FindByUserID status为空时返回全部
func (r *GoalRepository) FindByUserID(userID uint, status model.GoalStatus) ([]model.Goal, error) {
	query := r.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var goals []model.Goal
	err := query.Find(&goals).Error
	return goals, err
}

func (r *GoalRepository) Delete(id string, userID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Goal{}).Error
}
