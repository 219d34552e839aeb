package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

// CertificationService manages the certifications a user holds. Certifications
// expire two years after they are granted and are purged by the cleanup job.
type CertificationService interface {
	Grant(ctx context.Context, userID uuid.UUID, types []domain.CertificationType) ([]*domain.UserCertification, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domain.UserCertification, error)
	// EnsureHoldsAll fails with ErrCertificationNotHeld unless the user holds
	// every certification in required. A set containing NONE bypasses the
	// check entirely.
	EnsureHoldsAll(dbc dbctx.Context, userID uuid.UUID, required []domain.CertificationType) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type certificationService struct {
	db    *gorm.DB
	log   *logger.Logger
	certs repos.UserCertificationRepo
}

func NewCertificationService(db *gorm.DB, certs repos.UserCertificationRepo, baseLog *logger.Logger) CertificationService {
	return &certificationService{
		db:    db,
		log:   baseLog.With("service", "CertificationService"),
		certs: certs,
	}
}

func (s *certificationService) Grant(ctx context.Context, userID uuid.UUID, types []domain.CertificationType) ([]*domain.UserCertification, error) {
	for _, t := range types {
		if !t.Valid() || t == domain.CertificationNone {
			return nil, apperrors.ErrInvalidCertificationSet
		}
	}
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		held, err := s.certs.ListTypesByUserID(txc, userID)
		if err != nil {
			return err
		}
		heldSet := make(map[domain.CertificationType]bool, len(held))
		for _, t := range held {
			heldSet[t] = true
		}
		for _, t := range types {
			if heldSet[t] {
				continue
			}
			cert := &domain.UserCertification{
				ID:                uuid.New(),
				UserID:            userID,
				CertificationType: t,
				CertificationDate: now,
				ExpirationDate:    now.AddDate(2, 0, 0),
			}
			if _, err := s.certs.Create(txc, cert); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

func (s *certificationService) List(ctx context.Context, userID uuid.UUID) ([]*domain.UserCertification, error) {
	return s.certs.ListByUserID(dbctx.Context{Ctx: ctx}, userID)
}

func (s *certificationService) EnsureHoldsAll(dbc dbctx.Context, userID uuid.UUID, required []domain.CertificationType) error {
	if len(required) == 0 {
		return nil
	}
	for _, t := range required {
		if t == domain.CertificationNone {
			return nil
		}
	}
	held, err := s.certs.ListTypesByUserID(dbc, userID)
	if err != nil {
		return err
	}
	heldSet := make(map[domain.CertificationType]bool, len(held))
	for _, t := range held {
		heldSet[t] = true
	}
	for _, t := range required {
		if !heldSet[t] {
			return apperrors.ErrCertificationNotHeld
		}
	}
	return nil
}

func (s *certificationService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.certs.DeleteExpired(dbctx.Context{Ctx: ctx}, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.log.Info("purged expired certifications", "count", purged)
	}
	return purged, nil
}
