package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

// PointHistoryRepo only ever appends and reads: ledger rows are immutable and
// are never deleted.
type PointHistoryRepo interface {
	Append(dbc dbctx.Context, entry *domain.PointHistory) (*domain.PointHistory, error)
	GetLatestByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.PointHistory, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.PointHistory, error)
}

type pointHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPointHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PointHistoryRepo {
	return &pointHistoryRepo{db: db, log: baseLog.With("repo", "PointHistoryRepo")}
}

func (r *pointHistoryRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *pointHistoryRepo) Append(dbc dbctx.Context, entry *domain.PointHistory) (*domain.PointHistory, error) {
	if err := r.tx(dbc).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *pointHistoryRepo) GetLatestByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.PointHistory, error) {
	var entry domain.PointHistory
	err := r.tx(dbc).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *pointHistoryRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.PointHistory, error) {
	var entries []*domain.PointHistory
	if err := r.tx(dbc).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
