package model

type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightRecommendation InsightType = "recommendation"
	InsightAchievement    InsightType = "achievement"
	InsightWarning        InsightType = "warning"
)

// AIInsight AI分析产出的洞察
// swagger:model AIInsight
type AIInsight struct {
	UUIDBase
	UserID          uint        `gorm:"index;not null" json:"userId"`
	InsightType     InsightType `gorm:"type:enum('pattern','recommendation','achievement','warning');not null" json:"insightType"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	Content         string      `gorm:"type:text" json:"content"`
	ConfidenceScore float64     `gorm:"default:0" json:"confidenceScore"`
	IsRead          bool        `gorm:"default:false" json:"isRead"`
}

func (AIInsight) TableName() string {
	return "ai_insights"
}
