package service

import (
	"errors"
	"time"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/util"

	"gorm.io/gorm"
)

// CreateGoalInput 创建目标字段
type CreateGoalInput struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Category    string     `json:"category" binding:"max=50"`
	TargetDate  *time.Time `json:"targetDate"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateGoalInput 更新目标字段，指针区分"未提供"和"清空"
type UpdateGoalInput struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description"`
	Category    *string    `json:"category" binding:"omitempty,max=50"`
	TargetDate  *time.Time `json:"targetDate"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" binding:"omitempty,oneof=active completed paused"`
	Progress    *int       `json:"progress" binding:"omitempty,min=0,max=100"`
}

// GoalAnalytics 目标统计
type GoalAnalytics struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	Completed      int     `json:"completed"`
	Paused         int     `json:"paused"`
	CompletionRate float64 `json:"completionRate"`
	AvgProgress    float64 `json:"avgProgress"`
}

type goalStore interface {
	Create(goal *model.Goal) error
	Update(goal *model.Goal) error
	FindByIDAndUserID(id string, userID uint) (*model.Goal, error)
	FindByUserID(userID uint, status model.GoalStatus) ([]model.Goal, error)
	Delete(id string, userID uint) error
}

type GoalService struct {
	goals goalStore
}

func NewGoalService(goals goalStore) *GoalService {
	return &GoalService{goals: goals}
}

func (s *GoalService) Create(userID uint, input *CreateGoalInput) (*model.Goal, error) {
	goal := &model.Goal{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		TargetDate:  input.TargetDate,
		Priority:    model.PriorityMedium,
		Status:      model.GoalActive,
	}
	if input.Priority != "" {
		goal.Priority = model.GoalPriority(input.Priority)
	}
	if err := s.goals.Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Update 更新目标，进度拉满自动标记完成
func (s *GoalService) Update(id string, userID uint, input *UpdateGoalInput) (*model.Goal, error) {
	goal, err := s.findOwned(id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		goal.Title = *input.Title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Category != nil {
		goal.Category = *input.Category
	}
	if input.TargetDate != nil {
		goal.TargetDate = input.TargetDate
	}
	if input.Priority != nil {
		goal.Priority = model.GoalPriority(*input.Priority)
	}
	if input.Status != nil {
		goal.Status = model.GoalStatus(*input.Status)
	}
	if input.Progress != nil {
		goal.Progress = *input.Progress
		if goal.Progress >= 100 {
			goal.Progress = 100
			goal.Status = model.GoalCompleted
		}
	}

	if err := s.goals.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Get(id string, userID uint) (*model.Goal, error) {
	return s.findOwned(id, userID)
}

func (s *GoalService) List(userID uint, status string) ([]model.Goal, error) {
	return s.goals.FindByUserID(userID, model.GoalStatus(status))
}

func (s *GoalService) Analytics(userID uint) (*GoalAnalytics, error) {
	goals, err := s.goals.FindByUserID(userID, "")
	if err != nil {
		return nil, err
	}

	analytics := &GoalAnalytics{Total: len(goals)}
	progressSum := 0
	for _, g := range goals {
		switch g.Status {
		case model.GoalActive:
			analytics.Active++
		case model.GoalCompleted:
			analytics.Completed++
		case model.GoalPaused:
			analytics.Paused++
		}
		progressSum += g.Progress
	}
	if analytics.Total > 0 {
		analytics.CompletionRate = float64(analytics.Completed) / float64(analytics.Total)
		analytics.AvgProgress = float64(progressSum) / float64(analytics.Total)
	}
	return analytics, nil
}

func (s *GoalService) Delete(id string, userID uint) error {
	if _, err := s.findOwned(id, userID); err != nil {
		return err
	}
	return s.goals.Delete(id, userID)
}

func (s *GoalService) findOwned(id string, userID uint) (*model.Goal, error) {
	goal, err := s.goals.FindByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}
