package service

import (
	"fmt"
	"testing"
	"time"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memRecordStore struct {
	byKey map[string]*model.DailyRecord
	// 置位后下一次Create模拟并发插入：别的请求抢先写入同一天，
	// 唯一索引返回重复键错误
	injectRaceOnCreate bool
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{byKey: make(map[string]*model.DailyRecord)}
}

func (s *memRecordStore) key(userID uint, date time.Time) string {
	return fmt.Sprintf("%d#%s", userID, model.DateKey(date))
}

func (s *memRecordStore) Create(record *model.DailyRecord) error {
	k := s.key(record.UserID, record.Date)
	if s.injectRaceOnCreate {
		s.injectRaceOnCreate = false
		competitor := &model.DailyRecord{
			UserID:    record.UserID,
			Date:      record.Date,
			MoodScore: 1,
		}
		competitor.ID = model.GenerateUUID()
		s.byKey[k] = competitor
		return gorm.ErrDuplicatedKey
	}
	if _, exists := s.byKey[k]; exists {
		return gorm.ErrDuplicatedKey
	}
	if record.ID == "" {
		record.ID = model.GenerateUUID()
	}
	clone := *record
	s.byKey[k] = &clone
	return nil
}

func (s *memRecordStore) Update(record *model.DailyRecord) error {
	clone := *record
	s.byKey[s.key(record.UserID, record.Date)] = &clone
	return nil
}

func (s *memRecordStore) FindByUserAndDate(userID uint, date time.Time) (*model.DailyRecord, error) {
	if r, ok := s.byKey[s.key(userID, date)]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memRecordStore) FindRecent(userID uint, limit int) ([]model.DailyRecord, error) {
	var out []model.DailyRecord
	for _, r := range s.byKey {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memRecordStore) FindByDateRange(userID uint, start, end time.Time) ([]model.DailyRecord, error) {
	var out []model.DailyRecord
	for _, r := range s.byKey {
		if r.UserID == userID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memRecordStore) DeleteByUserAndDate(userID uint, date time.Time) error {
	delete(s.byKey, s.key(userID, date))
	return nil
}

func newTestRecordService(store *memRecordStore, ledgerStore *memLedgerStore) *DailyRecordService {
	gamification := NewGamificationService(&fakeStatsWriter{}, &fakeRecordStore{}, &fakeCheckinStore{}, 60)
	ledger := NewPointsHistoryService(ledgerStore)
	return NewDailyRecordService(store, gamification, ledger)
}

func TestSaveRecord_UpsertKeepsSingleRecordAndReward(t *testing.T) {
	store := newMemRecordStore()
	ledgerStore := &memLedgerStore{}
	svc := newTestRecordService(store, ledgerStore)

	input := &SaveRecordInput{
		Date:              "2026-08-29",
		MoodScore:         8,
		EnergyLevel:       5,
		ProductivityScore: 5,
		GoalsCompleted:    1,
	}

	first, created, err := svc.Save(3, input)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first)

	// 基础5 + 情绪质量2 + 目标3
	require.Len(t, ledgerStore.entries, 1)
	assert.Equal(t, 10, ledgerStore.entries[0].PointsDelta)
	assert.Equal(t, model.PointsSourceRecord, ledgerStore.entries[0].Source)

	// 同一天重复提交：覆盖字段，不产生第二条记录，也不重复发奖
	input.MoodScore = 3
	input.Reflections = "下午状态下滑"
	second, created, err := svc.Save(3, input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.MoodScore)
	assert.Equal(t, "下午状态下滑", second.Reflections)
	assert.Len(t, store.byKey, 1)
	assert.Len(t, ledgerStore.entries, 1)
}

func TestSaveRecord_DuplicateKeyRaceRetriesAsUpdate(t *testing.T) {
	store := newMemRecordStore()
	ledgerStore := &memLedgerStore{}
	svc := newTestRecordService(store, ledgerStore)

	// 存在性检查与写入之间被并发请求抢先插入，唯一索引报重复键
	store.injectRaceOnCreate = true

	input := &SaveRecordInput{
		Date:              "2026-08-29",
		MoodScore:         7,
		EnergyLevel:       6,
		ProductivityScore: 6,
	}
	record, created, err := svc.Save(3, input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 7, record.MoodScore)
	assert.Len(t, store.byKey, 1)

	// 重试走更新分支，本次请求不发奖
	assert.Empty(t, ledgerStore.entries)
}

func TestSaveRecord_InvalidDate(t *testing.T) {
	svc := newTestRecordService(newMemRecordStore(), &memLedgerStore{})

	_, _, err := svc.Save(1, &SaveRecordInput{Date: "29-08-2026", MoodScore: 5, EnergyLevel: 5, ProductivityScore: 5})
	assert.Error(t, err)
}

func TestGetRecordByDate_NotFound(t *testing.T) {
	svc := newTestRecordService(newMemRecordStore(), &memLedgerStore{})

	_, err := svc.GetByDate(1, time.Now())
	assert.ErrorIs(t, err, util.ErrRecordNotFound)
}
