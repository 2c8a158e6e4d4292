package service

import (
	"testing"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memGoalStore struct {
	goals map[string]*model.Goal
}

func newMemGoalStore() *memGoalStore {
	return &memGoalStore{goals: make(map[string]*model.Goal)}
}

func (s *memGoalStore) Create(goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = model.GenerateUUID()
	}
	clone := *goal
	s.goals[goal.ID] = &clone
	return nil
}

func (s *memGoalStore) Update(goal *model.Goal) error {
	clone := *goal
	s.goals[goal.ID] = &clone
	return nil
}

func (s *memGoalStore) FindByIDAndUserID(id string, userID uint) (*model.Goal, error) {
	if g, ok := s.goals[id]; ok && g.UserID == userID {
		clone := *g
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memGoalStore) FindByUserID(userID uint, status model.GoalStatus) ([]model.Goal, error) {
	var out []model.Goal
	for _, g := range s.goals {
		if g.UserID != userID {
			continue
		}
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (s *memGoalStore) Delete(id string, userID uint) error {
	delete(s.goals, id)
	return nil
}

func TestGoalCreate_Defaults(t *testing.T) {
	svc := NewGoalService(newMemGoalStore())

	goal, err := svc.Create(1, &CreateGoalInput{Title: "每周跑步三次"})
	require.NoError(t, err)
	assert.Equal(t, model.GoalActive, goal.Status)
	assert.Equal(t, model.PriorityMedium, goal.Priority)
	assert.Equal(t, 0, goal.Progress)
}

func TestGoalUpdate_FullProgressCompletes(t *testing.T) {
	store := newMemGoalStore()
	svc := NewGoalService(store)

	goal, err := svc.Create(1, &CreateGoalInput{Title: "读完一本书"})
	require.NoError(t, err)

	progress := 100
	updated, err := svc.Update(goal.ID, 1, &UpdateGoalInput{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, model.GoalCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
}

func TestGoalUpdate_WrongOwner(t *testing.T) {
	svc := NewGoalService(newMemGoalStore())

	goal, err := svc.Create(1, &CreateGoalInput{Title: "学习吉他"})
	require.NoError(t, err)

	progress := 50
	_, err = svc.Update(goal.ID, 2, &UpdateGoalInput{Progress: &progress})
	assert.ErrorIs(t, err, util.ErrGoalNotFound)
}

func TestGoalAnalytics(t *testing.T) {
	store := newMemGoalStore()
	svc := NewGoalService(store)

	mk := func(status model.GoalStatus, progress int) {
		require.NoError(t, store.Create(&model.Goal{UserID: 1, Title: "g", Status: status, Progress: progress}))
	}
	mk(model.GoalActive, 20)
	mk(model.GoalActive, 40)
	mk(model.GoalCompleted, 100)
	mk(model.GoalPaused, 10)

	analytics, err := svc.Analytics(1)
	require.NoError(t, err)
	assert.Equal(t, 4, analytics.Total)
	assert.Equal(t, 2, analytics.Active)
	assert.Equal(t, 1, analytics.Completed)
	assert.Equal(t, 1, analytics.Paused)
	assert.InDelta(t, 0.25, analytics.CompletionRate, 0.001)
	assert.InDelta(t, 42.5, analytics.AvgProgress, 0.001)
}
