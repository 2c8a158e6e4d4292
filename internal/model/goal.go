package model

import (
	"time"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Goal 用户目标
// swagger:model Goal
type Goal struct {
	UUIDBase
	UserID      uint         `gorm:"index;not null" json:"userId"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Category    string       `gorm:"size:50" json:"category"`
	TargetDate  *time.Time   `gorm:"type:date" json:"targetDate,omitempty"`
	Priority    GoalPriority `gorm:"type:enum('low','medium','high');default:'medium'" json:"priority"`
	Status      GoalStatus   `gorm:"type:enum('active','completed','paused');default:'active'" json:"status"`
	Progress    int          `gorm:"default:0" json:"progress"` // 0-100
}

func (Goal) TableName() string {
	return "goals"
}
