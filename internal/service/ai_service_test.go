package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"growth_journal_backend/internal/config"
	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIService_DisabledWithoutKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{BaseURL: "https://example.invalid", TimeoutSeconds: 1})
	assert.False(t, svc.Enabled())

	// 未配置密钥时不发起任何网络请求，直接返回降级信号
	_, err := svc.Chat(context.Background(), "system", "user")
	assert.ErrorIs(t, err, util.ErrAIDisabled)
}

func TestAIService_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"今日计划内容"}}]}`))
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "deepseek-chat",
		TimeoutSeconds: 5,
	})

	content, err := svc.Chat(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "今日计划内容", content)
}

func TestAIService_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "k", TimeoutSeconds: 5})

	_, err := svc.Chat(context.Background(), "system", "user")
	assert.ErrorIs(t, err, util.ErrAIEmptyResponse)
}

func TestAIService_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewAIService(config.AIConfig{BaseURL: server.URL, APIKey: "k", TimeoutSeconds: 5})

	_, err := svc.Chat(context.Background(), "system", "user")
	assert.Error(t, err)
}

func TestStripJSONFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripJSONFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripJSONFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripJSONFence(`{"a":1}`))
}

func TestParseAnalysisResponse(t *testing.T) {
	t.Run("合法JSON", func(t *testing.T) {
		content := `{"insights":[{"type":"pattern","title":"t","content":"c","confidence":0.9}],"recommendations":["r1"],"patterns":["p1"]}`
		result, err := parseAnalysisResponse(content)
		require.NoError(t, err)
		require.Len(t, result.Insights, 1)
		assert.Equal(t, model.InsightPattern, result.Insights[0].InsightType)
		assert.Equal(t, []string{"r1"}, result.Recommendations)
	})

	t.Run("未知类型回落到recommendation", func(t *testing.T) {
		content := `{"insights":[{"type":"mystery","title":"t","content":"c","confidence":0.5}]}`
		result, err := parseAnalysisResponse(content)
		require.NoError(t, err)
		assert.Equal(t, model.InsightRecommendation, result.Insights[0].InsightType)
	})

	t.Run("越界置信度归一", func(t *testing.T) {
		content := `{"insights":[{"type":"pattern","title":"t","content":"c","confidence":3.0}]}`
		result, err := parseAnalysisResponse(content)
		require.NoError(t, err)
		assert.Equal(t, 0.5, result.Insights[0].ConfidenceScore)
	})

	t.Run("非JSON内容报错", func(t *testing.T) {
		_, err := parseAnalysisResponse("今天的分析如下：……")
		assert.Error(t, err)
	})
}

func TestLocalAnalysis(t *testing.T) {
	t.Run("高分记录产出积极洞察", func(t *testing.T) {
		records := []model.DailyRecord{
			{MoodScore: 8, EnergyLevel: 8, ProductivityScore: 8},
			{MoodScore: 9, EnergyLevel: 7, ProductivityScore: 9},
		}
		result := localAnalysis(records)
		assert.Equal(t, "local", result.Source)
		require.NotEmpty(t, result.Insights)

		types := make(map[model.InsightType]bool)
		for _, ins := range result.Insights {
			types[ins.InsightType] = true
		}
		assert.True(t, types[model.InsightPattern])
		assert.True(t, types[model.InsightAchievement])
	})

	t.Run("低分记录产出预警", func(t *testing.T) {
		records := []model.DailyRecord{
			{MoodScore: 3, EnergyLevel: 4, ProductivityScore: 4},
		}
		result := localAnalysis(records)
		found := false
		for _, ins := range result.Insights {
			if ins.InsightType == model.InsightWarning {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("确定性输出", func(t *testing.T) {
		records := []model.DailyRecord{{MoodScore: 6, EnergyLevel: 6, ProductivityScore: 6}}
		assert.Equal(t, localAnalysis(records), localAnalysis(records))
	})
}
