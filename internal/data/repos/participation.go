package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

type ParticipationRepo interface {
	Create(dbc dbctx.Context, participations []*domain.Participation) ([]*domain.Participation, error)
	ExistsBySurveyAndUser(dbc dbctx.Context, surveyID, userID uuid.UUID) (bool, error)
	ListBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.Participation, error)
	DeleteBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) error
}

type participationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipationRepo(db *gorm.DB, baseLog *logger.Logger) ParticipationRepo {
	return &participationRepo{db: db, log: baseLog.With("repo", "ParticipationRepo")}
}

func (r *participationRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *participationRepo) Create(dbc dbctx.Context, participations []*domain.Participation) ([]*domain.Participation, error) {
	if len(participations) == 0 {
		return participations, nil
	}
	if err := r.tx(dbc).Create(&participations).Error; err != nil {
		return nil, err
	}
	return participations, nil
}

func (r *participationRepo) ExistsBySurveyAndUser(dbc dbctx.Context, surveyID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.tx(dbc).Model(&domain.Participation{}).
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *participationRepo) ListBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.Participation, error) {
	var participations []*domain.Participation
	if err := r.tx(dbc).Where("survey_id = ?", surveyID).Find(&participations).Error; err != nil {
		return nil, err
	}
	return participations, nil
}

func (r *participationRepo) DeleteBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) error {
	return r.tx(dbc).Where("survey_id = ?", surveyID).Delete(&domain.Participation{}).Error
}
