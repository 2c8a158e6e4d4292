package model

type PointsSource string

const (
	PointsSourceCheckin PointsSource = "checkin"
	PointsSourceRecord  PointsSource = "record"
	PointsSourceManual  PointsSource = "manual"
)

// PointsHistory 积分流水，只追加不更新不删除，用于审计与展示
// 注意：权威总分由活动日志整体重算，不等于流水求和（见DESIGN.md）
// swagger:model PointsHistory
type PointsHistory struct {
	UUIDBase
	UserID      uint         `gorm:"index;not null" json:"userId"`
	PointsDelta int          `gorm:"not null" json:"pointsDelta"`
	Source      PointsSource `gorm:"type:enum('checkin','record','manual');not null" json:"source"`
	ReferenceID string       `gorm:"size:36" json:"referenceId,omitempty"`
	Note        string       `gorm:"size:255" json:"note,omitempty"`
}

func (PointsHistory) TableName() string {
	return "points_history"
}
