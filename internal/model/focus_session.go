package model

import (
	"time"
)

// FocusSession 专注时段记录，只增不改
// swagger:model FocusSession
type FocusSession struct {
	UUIDBase
	UserID         uint      `gorm:"index;not null" json:"userId"`
	TaskTitle      string    `gorm:"size:255" json:"taskTitle"`
	PlannedMinutes int       `gorm:"not null" json:"plannedMinutes"`
	ActualMinutes  int       `gorm:"not null" json:"actualMinutes"`
	IsSuccess      bool      `gorm:"default:true" json:"isSuccess"`
	Notes          string    `gorm:"type:text" json:"notes"`
	StartedAt      time.Time `gorm:"index;not null" json:"startedAt"`
	EndedAt        time.Time `json:"endedAt"`
}

func (FocusSession) TableName() string {
	return "focus_sessions"
}
