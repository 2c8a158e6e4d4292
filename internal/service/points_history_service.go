package service

import (
	"growth_journal_backend/internal/model"
	"growth_journal_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 200
)

type pointsLedgerStore interface {
	Create(entry *model.PointsHistory) error
	ListByUser(userID uint, limit int) ([]model.PointsHistory, error)
}

// PointsHistoryService 积分流水，只追加。
// 流水用于审计与展示，权威总分始终由 GamificationService 重算，
// 两者可能短暂不一致（例如连续奖励跨档时），以重算结果为准
type PointsHistoryService struct {
	ledger pointsLedgerStore
}

func NewPointsHistoryService(ledger pointsLedgerStore) *PointsHistoryService {
	return &PointsHistoryService{ledger: ledger}
}

// Append 尽力追加一条流水，失败只记日志。
// 流水丢失不影响权威积分，不值得让主操作失败
func (s *PointsHistoryService) Append(userID uint, delta int, source model.PointsSource, referenceID, note string) {
	entry := &model.PointsHistory{
		UserID:      userID,
		PointsDelta: delta,
		Source:      source,
		ReferenceID: referenceID,
		Note:        note,
	}
	if err := s.ledger.Create(entry); err != nil {
		logger.Log.Warn("积分流水写入失败",
			zap.Uint("userId", userID),
			zap.Int("delta", delta),
			zap.String("source", string(source)),
			zap.Error(err))
	}
}

func (s *PointsHistoryService) List(userID uint, limit int) ([]model.PointsHistory, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	if limit > maxLedgerLimit {
		limit = maxLedgerLimit
	}
	return s.ledger.ListByUser(userID, limit)
}
