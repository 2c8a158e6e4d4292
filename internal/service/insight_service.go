package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/repository"
	"growth_journal_backend/pkg/logger"
	"growth_journal_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const analysisSystemPrompt = "你是一个专业的个人成长AI助手，专门分析用户的每日记录数据，提供个性化的洞察和建议。请用中文回复，并且回复要准确、有用、积极向上。"

// AnalysisResult AI分析结果。Source标记来自远端模型还是本地规则
type AnalysisResult struct {
	Insights        []model.AIInsight `json:"insights"`
	Recommendations []string          `json:"recommendations"`
	Patterns        []string          `json:"patterns"`
	Source          string            `json:"source"`
	Message         string            `json:"message,omitempty"`
}

// InsightService AI洞察：远端分析 + 本地规则降级 + 持久化
type InsightService struct {
	ai       *AIService
	insights *repository.AIInsightRepository
	records  *repository.DailyRecordRepository
}

func NewInsightService(ai *AIService, insights *repository.AIInsightRepository, records *repository.DailyRecordRepository) *InsightService {
	return &InsightService{
		ai:       ai,
		insights: insights,
		records:  records,
	}
}

// Analyze 分析用户最近14天的记录。
// 远端模型不可用、超时或返回无法解析的内容时，一律退回本地规则分析，
// 接口本身不会因AI失败而报错
func (s *InsightService) Analyze(ctx context.Context, userID uint) (*AnalysisResult, error) {
	records, err := s.records.FindRecent(userID, 14)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &AnalysisResult{
			Insights: []model.AIInsight{},
			Source:   "local",
			Message:  "需要更多记录数据才能进行AI分析",
		}, nil
	}

	if s.ai.Enabled() {
		content, err := s.ai.Chat(ctx, analysisSystemPrompt, buildAnalysisPrompt(records))
		if err == nil {
			if result, perr := parseAnalysisResponse(content); perr == nil {
				result.Insights = s.persistInsights(userID, result.Insights)
				result.Source = "ai"
				return result, nil
			} else {
				logger.Log.Warn("AI分析结果解析失败，使用本地分析",
					zap.Uint("userId", userID),
					zap.Error(perr))
			}
		} else {
			logger.Log.Warn("AI分析调用失败，使用本地分析",
				zap.Uint("userId", userID),
				zap.Error(err))
		}
	}
	monitoring.AIFallbackCounter.WithLabelValues("analyze").Inc()

	result := localAnalysis(records)
	result.Insights = s.persistInsights(userID, result.Insights)
	return result, nil
}

func (s *InsightService) List(userID uint, limit int, unreadOnly bool) ([]model.AIInsight, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.insights.ListByUser(userID, limit, unreadOnly)
}

func (s *InsightService) MarkRead(id string, userID uint) error {
	return s.insights.MarkRead(id, userID)
}

func (s *InsightService) MarkAllRead(userID uint) error {
	return s.insights.MarkAllRead(userID)
}

func (s *InsightService) Delete(id string, userID uint) error {
	return s.insights.Delete(id, userID)
}

// persistInsights 逐条落库，单条失败只记日志不中断
func (s *InsightService) persistInsights(userID uint, insights []model.AIInsight) []model.AIInsight {
	saved := make([]model.AIInsight, 0, len(insights))
	for i := range insights {
		insight := insights[i]
		insight.UserID = userID
		if err := s.insights.Create(&insight); err != nil {
			logger.Log.Warn("AI洞察保存失败",
				zap.Uint("userId", userID),
				zap.String("title", insight.Title),
				zap.Error(err))
			continue
		}
		saved = append(saved, insight)
	}
	return saved
}

func buildAnalysisPrompt(records []model.DailyRecord) string {
	recent := records
	if len(recent) > 7 {
		recent = recent[:7]
	}

	var sb strings.Builder
	for i, r := range recent {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "日期: %s\n情绪评分: %d/10\n精力水平: %d/10\n生产力: %d/10\n感恩记录: %s\n成就: %s\n挑战: %s\n反思: %s\n完成目标数: %d",
			model.DateKey(r.Date),
			r.MoodScore, r.EnergyLevel, r.ProductivityScore,
			orNone(r.GratitudeNotes),
			orNone(strings.Join(r.Achievements, ", ")),
			orNone(strings.Join(r.Challenges, ", ")),
			orNone(r.Reflections),
			r.GoalsCompleted)
	}

	return fmt.Sprintf(`请分析以下用户的每日记录数据，并提供洞察和建议：

%s

请以JSON格式回复，包含以下字段：
{
  "insights": [
    {
      "type": "pattern|recommendation|achievement|warning",
      "title": "洞察标题",
      "content": "详细内容",
      "confidence": 0.8
    }
  ],
  "recommendations": ["建议1", "建议2"],
  "patterns": ["模式1", "模式2"]
}

重点关注：
1. 情绪、精力、生产力的变化趋势
2. 积极和消极的行为模式
3. 可操作的改进建议
4. 值得庆祝的成就和进步`, sb.String())
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "无"
	}
	return s
}

type analysisPayload struct {
	Insights []struct {
		Type       string  `json:"type"`
		Title      string  `json:"title"`
		Content    string  `json:"content"`
		Confidence float64 `json:"confidence"`
	} `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Patterns        []string `json:"patterns"`
}

func parseAnalysisResponse(content string) (*AnalysisResult, error) {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(StripJSONFence(content)), &payload); err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Insights:        make([]model.AIInsight, 0, len(payload.Insights)),
		Recommendations: payload.Recommendations,
		Patterns:        payload.Patterns,
	}
	for _, item := range payload.Insights {
		insightType := model.InsightType(item.Type)
		switch insightType {
		case model.InsightPattern, model.InsightRecommendation, model.InsightAchievement, model.InsightWarning:
		default:
			insightType = model.InsightRecommendation
		}
		confidence := item.Confidence
		if confidence < 0 || confidence > 1 {
			confidence = 0.5
		}
		result.Insights = append(result.Insights, model.AIInsight{
			InsightType:     insightType,
			Title:           item.Title,
			Content:         item.Content,
			ConfidenceScore: confidence,
		})
	}
	return result, nil
}

// localAnalysis 确定性规则分析，AI不可用时的兜底
func localAnalysis(records []model.DailyRecord) *AnalysisResult {
	recent := records
	if len(recent) > 7 {
		recent = recent[:7]
	}

	var moodSum, energySum, prodSum, goalsSum int
	for _, r := range recent {
		moodSum += clampScore(r.MoodScore)
		energySum += clampScore(r.EnergyLevel)
		prodSum += clampScore(r.ProductivityScore)
		goalsSum += r.GoalsCompleted
	}
	n := float64(len(recent))
	avgMood := float64(moodSum) / n
	avgEnergy := float64(energySum) / n
	avgProductivity := float64(prodSum) / n

	result := &AnalysisResult{Source: "local"}

	if avgMood >= 7 {
		result.Insights = append(result.Insights, model.AIInsight{
			InsightType:     model.InsightPattern,
			Title:           "情绪状态良好",
			Content:         fmt.Sprintf("最近7天平均情绪%.1f分，整体保持在积极区间，继续保持当前的生活节奏。", avgMood),
			ConfidenceScore: 0.9,
		})
		result.Patterns = append(result.Patterns, "情绪持续积极")
	} else if avgMood < 5 {
		result.Insights = append(result.Insights, model.AIInsight{
			InsightType:     model.InsightWarning,
			Title:           "情绪波动需要关注",
			Content:         fmt.Sprintf("最近7天平均情绪仅%.1f分，建议每天花3分钟做情绪标注，找出具体诱因。", avgMood),
			ConfidenceScore: 0.8,
		})
		result.Recommendations = append(result.Recommendations, "每天做一次简短的情绪标注")
	}

	if avgEnergy < 6 {
		result.Insights = append(result.Insights, model.AIInsight{
			InsightType:     model.InsightRecommendation,
			Title:           "注意精力管理",
			Content:         fmt.Sprintf("最近7天平均精力%.1f分，建议优先安排高价值低耗的任务，并加入短时散步或拉伸。", avgEnergy),
			ConfidenceScore: 0.8,
		})
		result.Recommendations = append(result.Recommendations, "安排1-2次短暂散步或拉伸")
	}

	if avgProductivity >= 7 {
		result.Insights = append(result.Insights, model.AIInsight{
			InsightType:     model.InsightAchievement,
			Title:           "生产力表现出色",
			Content:         fmt.Sprintf("最近7天平均生产力%.1f分，完成目标%d个，值得为自己庆祝这份坚持。", avgProductivity, goalsSum),
			ConfidenceScore: 0.85,
		})
		result.Patterns = append(result.Patterns, "生产力保持高位")
	}

	if len(result.Insights) == 0 {
		result.Insights = append(result.Insights, model.AIInsight{
			InsightType:     model.InsightRecommendation,
			Title:           "继续记录",
			Content:         "继续每日记录，积累更多数据以获得更准确的分析。",
			ConfidenceScore: 0.8,
		})
		result.Recommendations = append(result.Recommendations, "继续每日记录", "保持积极心态")
	}

	return result
}
