package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

type UserCertificationRepo interface {
	Create(dbc dbctx.Context, cert *domain.UserCertification) (*domain.UserCertification, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.UserCertification, error)
	ListTypesByUserID(dbc dbctx.Context, userID uuid.UUID) ([]domain.CertificationType, error)
	DeleteExpired(dbc dbctx.Context, asOf time.Time) (int64, error)
}

type userCertificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserCertificationRepo(db *gorm.DB, baseLog *logger.Logger) UserCertificationRepo {
	return &userCertificationRepo{db: db, log: baseLog.With("repo", "UserCertificationRepo")}
}

func (r *userCertificationRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *userCertificationRepo) Create(dbc dbctx.Context, cert *domain.UserCertification) (*domain.UserCertification, error) {
	if err := r.tx(dbc).Create(cert).Error; err != nil {
		return nil, err
	}
	return cert, nil
}

func (r *userCertificationRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.UserCertification, error) {
	var certs []*domain.UserCertification
	if err := r.tx(dbc).Where("user_id = ?", userID).Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *userCertificationRepo) ListTypesByUserID(dbc dbctx.Context, userID uuid.UUID) ([]domain.CertificationType, error) {
	var types []domain.CertificationType
	if err := r.tx(dbc).Model(&domain.UserCertification{}).
		Where("user_id = ?", userID).
		Pluck("certification_type", &types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *userCertificationRepo) DeleteExpired(dbc dbctx.Context, asOf time.Time) (int64, error) {
	res := r.tx(dbc).Where("expiration_date <= ?", asOf).Delete(&domain.UserCertification{})
	return res.RowsAffected, res.Error
}
