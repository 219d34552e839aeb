package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

// PointHistoryService maintains the append-only point ledger. The ledger is
// not self-synchronizing: Append reads the latest balance and writes a new
// row, so callers that can race on the same user must hold that user's lock
// around the call.
type PointHistoryService interface {
	CurrentBalance(dbc dbctx.Context, userID uuid.UUID) (int, error)
	Append(dbc dbctx.Context, userID uuid.UUID, delta int) (*domain.PointHistory, error)
	History(dbc dbctx.Context, userID uuid.UUID) ([]*domain.PointHistory, error)
}

type pointHistoryService struct {
	repo repos.PointHistoryRepo
	log  *logger.Logger
}

func NewPointHistoryService(repo repos.PointHistoryRepo, baseLog *logger.Logger) PointHistoryService {
	return &pointHistoryService{
		repo: repo,
		log:  baseLog.With("service", "PointHistoryService"),
	}
}

// CurrentBalance returns the latest entry's balance, or 0 when the user has
// no ledger rows yet.
func (s *pointHistoryService) CurrentBalance(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	latest, err := s.repo.GetLatestByUserID(dbc, userID)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.Balance, nil
}

// Append writes one ledger entry with the balance after applying delta. A
// delta that would take the balance negative fails with
// ErrInsufficientPoints and writes nothing.
func (s *pointHistoryService) Append(dbc dbctx.Context, userID uuid.UUID, delta int) (*domain.PointHistory, error) {
	balance, err := s.CurrentBalance(dbc, userID)
	if err != nil {
		return nil, err
	}
	newBalance := balance + delta
	if newBalance < 0 {
		s.log.Debug("ledger append rejected", "user_id", userID, "balance", balance, "delta", delta)
		return nil, apperrors.ErrInsufficientPoints
	}
	entry := &domain.PointHistory{
		UserID:          userID,
		Delta:           delta,
		Balance:         newBalance,
		TransactionDate: time.Now().UTC(),
	}
	return s.repo.Append(dbc, entry)
}

func (s *pointHistoryService) History(dbc dbctx.Context, userID uuid.UUID) ([]*domain.PointHistory, error) {
	return s.repo.ListByUserID(dbc, userID)
}
