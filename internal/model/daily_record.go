package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList 以JSON数组形式存储的字符串列表（成就、挑战）
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

// DailyRecord 每日记录，每个用户每天至多一条（唯一索引保证）
// swagger:model DailyRecord
type DailyRecord struct {
	UUIDBase
	UserID            uint       `gorm:"index:idx_record_user_date,unique;not null" json:"userId"`
	Date              time.Time  `gorm:"type:date;index:idx_record_user_date,unique;not null" json:"date"`
	MoodScore         int        `gorm:"not null" json:"moodScore"`         // 1-10
	EnergyLevel       int        `gorm:"not null" json:"energyLevel"`       // 1-10
	ProductivityScore int        `gorm:"not null" json:"productivityScore"` // 1-10
	GoalsCompleted    int        `gorm:"default:0" json:"goalsCompleted"`
	GratitudeNotes    string     `gorm:"type:text" json:"gratitudeNotes"`
	Reflections       string     `gorm:"type:text" json:"reflections"`
	Achievements      StringList `gorm:"type:json" json:"achievements"`
	Challenges        StringList `gorm:"type:json" json:"challenges"`
}

func (DailyRecord) TableName() string {
	return "daily_records"
}
