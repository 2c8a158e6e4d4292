package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

// User 用户主档，total_points/level/streak_count 是派生缓存字段，
// 真实值始终由活动日志重算得出（见 GamificationService.RefreshUserStats）
// swagger:model User
type User struct {
	BaseModel
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"size:100;unique;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	Role        UserRole  `gorm:"type:enum('member','admin');default:'member'" json:"role"`
	Avatar      string    `gorm:"size:255" json:"avatar"`
	TotalPoints int       `gorm:"default:0" json:"totalPoints"` // 派生缓存：总积分
	Level       int       `gorm:"default:1" json:"level"`       // 派生缓存：等级
	StreakCount int       `gorm:"default:0" json:"streakCount"` // 派生缓存：连续天数
	Disabled    bool      `gorm:"default:false" json:"disabled"`
	LastLogin   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen    time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
