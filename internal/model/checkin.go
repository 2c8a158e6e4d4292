package model

import (
	"time"
)

// Checkin 每日签到标记，登录/会话恢复时自动创建
// (user_id, date) 唯一索引是幂等性的最终保障，存在性检查只是优化
// swagger:model Checkin
type Checkin struct {
	UUIDBase
	UserID uint      `gorm:"index:idx_checkin_user_date,unique;not null" json:"userId"`
	Date   time.Time `gorm:"type:date;index:idx_checkin_user_date,unique;not null" json:"date"`
}

func (Checkin) TableName() string {
	return "daily_checkins"
}
