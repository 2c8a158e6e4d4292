package service

import (
	"errors"
	"testing"
	"time"

	"growth_journal_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t time.Time, offset int) time.Time {
	return model.Midnight(t).AddDate(0, 0, offset)
}

func TestStreakFromDates(t *testing.T) {
	today := time.Date(2026, 8, 29, 15, 0, 0, 0, time.Local)

	t.Run("连续3天", func(t *testing.T) {
		days := map[string]struct{}{
			model.DateKey(day(today, 0)):  {},
			model.DateKey(day(today, -1)): {},
			model.DateKey(day(today, -2)): {},
		}
		assert.Equal(t, 3, StreakFromDates(days, today, 60))
	})

	t.Run("中断后只算到断点", func(t *testing.T) {
		days := map[string]struct{}{
			model.DateKey(day(today, 0)):  {},
			model.DateKey(day(today, -1)): {},
			// -2 缺失
			model.DateKey(day(today, -3)): {},
			model.DateKey(day(today, -4)): {},
		}
		assert.Equal(t, 2, StreakFromDates(days, today, 60))
	})

	t.Run("今天无活动归零", func(t *testing.T) {
		days := map[string]struct{}{
			model.DateKey(day(today, -1)): {},
			model.DateKey(day(today, -2)): {},
		}
		assert.Equal(t, 0, StreakFromDates(days, today, 60))
	})

	t.Run("空集合归零", func(t *testing.T) {
		assert.Equal(t, 0, StreakFromDates(nil, today, 60))
	})

	t.Run("回看上限截断", func(t *testing.T) {
		days := make(map[string]struct{})
		for i := 0; i <= 90; i++ {
			days[model.DateKey(day(today, -i))] = struct{}{}
		}
		got := StreakFromDates(days, today, 60)
		assert.Equal(t, 61, got)
	})
}

func TestRecordReward(t *testing.T) {
	t.Run("高分质量奖励", func(t *testing.T) {
		record := &model.DailyRecord{
			MoodScore:         9,
			EnergyLevel:       9,
			ProductivityScore: 9,
			GoalsCompleted:    2,
		}
		// 基础5 + 质量2×3 + 目标2×3
		assert.Equal(t, 17, RecordReward(record))
	})

	t.Run("普通记录只有基础分", func(t *testing.T) {
		record := &model.DailyRecord{
			MoodScore:         5,
			EnergyLevel:       5,
			ProductivityScore: 5,
		}
		assert.Equal(t, 5, RecordReward(record))
	})

	t.Run("内容丰富度奖励", func(t *testing.T) {
		longReflection := ""
		for i := 0; i < 51; i++ {
			longReflection += "思"
		}
		longGratitude := ""
		for i := 0; i < 21; i++ {
			longGratitude += "谢"
		}
		record := &model.DailyRecord{
			MoodScore:         5,
			EnergyLevel:       5,
			ProductivityScore: 5,
			Achievements:      model.StringList{"完成晨跑"},
			Reflections:       longReflection,
			GratitudeNotes:    longGratitude,
		}
		// 基础5 + 成就2 + 反思3 + 感恩2
		assert.Equal(t, 12, RecordReward(record))
	})

	t.Run("奖励只增不减", func(t *testing.T) {
		base := &model.DailyRecord{MoodScore: 5, EnergyLevel: 5, ProductivityScore: 5}
		richer := &model.DailyRecord{MoodScore: 8, EnergyLevel: 5, ProductivityScore: 5}
		assert.Greater(t, RecordReward(richer), RecordReward(base))
	})
}

func TestUserLevel(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{-5, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, UserLevel(c.points), "points=%d", c.points)
	}
}

func TestPointsToNextLevel(t *testing.T) {
	assert.Equal(t, 100, PointsToNextLevel(0))
	assert.Equal(t, 1, PointsToNextLevel(99))
	assert.Equal(t, 100, PointsToNextLevel(100))
	assert.Equal(t, 50, PointsToNextLevel(250))
}

func TestEvaluateAchievements(t *testing.T) {
	t.Run("新用户全部未解锁", func(t *testing.T) {
		statuses := EvaluateAchievements(Aggregates{})
		require.Len(t, statuses, len(achievementCatalog))
		for _, s := range statuses {
			assert.False(t, s.Unlocked, s.ID)
		}
	})

	t.Run("首条记录解锁初次记录", func(t *testing.T) {
		statuses := EvaluateAchievements(Aggregates{TotalRecords: 1})
		byID := indexByID(statuses)
		assert.True(t, byID["first_record"].Unlocked)
		assert.False(t, byID["record_master"].Unlocked)
	})

	t.Run("连续7天解锁坚持一周", func(t *testing.T) {
		statuses := EvaluateAchievements(Aggregates{TotalRecords: 7, Streak: 7})
		byID := indexByID(statuses)
		assert.True(t, byID["streak_week"].Unlocked)
		assert.False(t, byID["streak_half_month"].Unlocked)
	})

	t.Run("心情成就按窗口分别判定", func(t *testing.T) {
		statuses := EvaluateAchievements(Aggregates{
			TotalRecords: 10,
			MoodAvg7:     7.5,
			MoodAvg30:    6.0,
		})
		byID := indexByID(statuses)
		assert.True(t, byID["positive_mood"].Unlocked)
		assert.False(t, byID["mood_master"].Unlocked)
	})

	t.Run("同样输入结果确定", func(t *testing.T) {
		agg := Aggregates{TotalRecords: 50, Streak: 15, GoalsCompleted: 100, MoodAvg7: 8, MoodAvg30: 8}
		first := EvaluateAchievements(agg)
		second := EvaluateAchievements(agg)
		assert.Equal(t, first, second)
	})
}

func indexByID(statuses []AchievementStatus) map[string]AchievementStatus {
	out := make(map[string]AchievementStatus, len(statuses))
	for _, s := range statuses {
		out[s.ID] = s
	}
	return out
}

func TestAggregatesFromRecords(t *testing.T) {
	records := []model.DailyRecord{
		{MoodScore: 8, GoalsCompleted: 2},
		{MoodScore: 6, GoalsCompleted: 1},
		{MoodScore: 10, GoalsCompleted: -3}, // 脏数据不计入目标总数
	}
	agg := AggregatesFromRecords(records, 5)
	assert.Equal(t, 3, agg.TotalRecords)
	assert.Equal(t, 5, agg.Streak)
	assert.Equal(t, 3, agg.GoalsCompleted)
	assert.InDelta(t, 8.0, agg.MoodAvg7, 0.001)
	assert.InDelta(t, 8.0, agg.MoodAvg30, 0.001)
}

func TestAggregatesFromRecords_Empty(t *testing.T) {
	agg := AggregatesFromRecords(nil, 0)
	assert.Equal(t, 0.0, agg.MoodAvg7)
	assert.Equal(t, 0.0, agg.MoodAvg30)
}

// --- 集成层：用内存桩验证重算与刷新 ---

type fakeRecordStore struct {
	records []model.DailyRecord
	err     error
}

func (f *fakeRecordStore) FindAllByUser(userID uint) ([]model.DailyRecord, error) {
	return f.records, f.err
}

func (f *fakeRecordStore) DatesBetween(userID uint, start, end time.Time) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	var dates []time.Time
	for _, r := range f.records {
		if !r.Date.Before(start) && !r.Date.After(end) {
			dates = append(dates, r.Date)
		}
	}
	return dates, nil
}

type fakeCheckinStore struct {
	dates []time.Time
	err   error
}

func (f *fakeCheckinStore) CountByUser(userID uint) (int64, error) {
	return int64(len(f.dates)), f.err
}

func (f *fakeCheckinStore) DatesBetween(userID uint, start, end time.Time) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []time.Time
	for _, d := range f.dates {
		if !d.Before(start) && !d.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeStatsWriter struct {
	called bool
	points int
	level  int
	streak int
	err    error
}

func (f *fakeStatsWriter) UpdateGameStats(userID uint, points, level, streak int) error {
	f.called = true
	f.points = points
	f.level = level
	f.streak = streak
	return f.err
}

func TestComputeUserPoints(t *testing.T) {
	now := time.Now()
	records := []model.DailyRecord{
		{Date: day(now, 0), MoodScore: 9, EnergyLevel: 5, ProductivityScore: 5, GoalsCompleted: 1},
		{Date: day(now, -1), MoodScore: 5, EnergyLevel: 5, ProductivityScore: 5},
	}
	recordStore := &fakeRecordStore{records: records}
	checkinStore := &fakeCheckinStore{dates: []time.Time{day(now, 0), day(now, -1)}}
	writer := &fakeStatsWriter{}

	svc := NewGamificationService(writer, recordStore, checkinStore, 60)

	points, err := svc.ComputeUserPoints(1)
	require.NoError(t, err)
	// 记录2×5 + 心情9质量2 + 目标1×3 + 签到2×2，连续2天不足7天无里程碑
	assert.Equal(t, 19, points)
}

func TestUnifiedStreak_MergesRecordsAndCheckins(t *testing.T) {
	now := time.Now()
	// 记录覆盖今天，签到覆盖昨天和前天：合并后连续3天
	recordStore := &fakeRecordStore{records: []model.DailyRecord{
		{Date: day(now, 0), MoodScore: 5, EnergyLevel: 5, ProductivityScore: 5},
	}}
	checkinStore := &fakeCheckinStore{dates: []time.Time{day(now, -1), day(now, -2)}}

	svc := NewGamificationService(&fakeStatsWriter{}, recordStore, checkinStore, 60)

	streak, err := svc.UnifiedStreak(1, now)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestUnifiedStreak_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("db gone")
	recordStore := &fakeRecordStore{err: storeErr}
	svc := NewGamificationService(&fakeStatsWriter{}, recordStore, &fakeCheckinStore{}, 60)

	_, err := svc.UnifiedStreak(1, time.Now())
	assert.ErrorIs(t, err, storeErr)
}

func TestRefreshUserStats(t *testing.T) {
	now := time.Now()

	t.Run("一次性写入全部派生字段", func(t *testing.T) {
		recordStore := &fakeRecordStore{records: []model.DailyRecord{
			{Date: day(now, 0), MoodScore: 5, EnergyLevel: 5, ProductivityScore: 5},
		}}
		checkinStore := &fakeCheckinStore{}
		writer := &fakeStatsWriter{}
		svc := NewGamificationService(writer, recordStore, checkinStore, 60)

		require.NoError(t, svc.RefreshUserStats(1))
		assert.True(t, writer.called)
		assert.Equal(t, 5, writer.points)
		assert.Equal(t, 1, writer.level)
		assert.Equal(t, 1, writer.streak)
	})

	t.Run("子计算失败时整体放弃写入", func(t *testing.T) {
		checkinStore := &fakeCheckinStore{err: errors.New("redis on fire")}
		writer := &fakeStatsWriter{}
		svc := NewGamificationService(writer, &fakeRecordStore{}, checkinStore, 60)

		err := svc.RefreshUserStats(1)
		assert.Error(t, err)
		assert.False(t, writer.called)
	})

	t.Run("写入失败原样上抛", func(t *testing.T) {
		writeErr := errors.New("write denied")
		writer := &fakeStatsWriter{err: writeErr}
		svc := NewGamificationService(writer, &fakeRecordStore{}, &fakeCheckinStore{}, 60)

		assert.ErrorIs(t, svc.RefreshUserStats(1), writeErr)
	})
}

func TestGetPanel(t *testing.T) {
	now := time.Now()
	recordStore := &fakeRecordStore{records: []model.DailyRecord{
		{Date: day(now, 0), MoodScore: 8, EnergyLevel: 5, ProductivityScore: 5},
	}}
	svc := NewGamificationService(&fakeStatsWriter{}, recordStore, &fakeCheckinStore{}, 60)

	panel, err := svc.GetPanel(1)
	require.NoError(t, err)
	// 记录1×5 + 心情8质量2
	assert.Equal(t, 7, panel.TotalPoints)
	assert.Equal(t, 1, panel.Level)
	assert.Equal(t, 93, panel.PointsToNextLevel)
	assert.Equal(t, 1, panel.StreakCount)
	assert.Len(t, panel.Achievements, len(achievementCatalog))
}
