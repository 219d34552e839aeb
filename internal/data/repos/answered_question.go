package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

type AnsweredQuestionRepo interface {
	Create(dbc dbctx.Context, answers []*domain.AnsweredQuestion) ([]*domain.AnsweredQuestion, error)
	ExistsByUserAndSurvey(dbc dbctx.Context, userID, surveyID uuid.UUID) (bool, error)
	ListBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.AnsweredQuestion, error)
	ListByQuestionBankID(dbc dbctx.Context, questionBankID uuid.UUID) ([]*domain.AnsweredQuestion, error)
	DeleteBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) error
}

type answeredQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnsweredQuestionRepo(db *gorm.DB, baseLog *logger.Logger) AnsweredQuestionRepo {
	return &answeredQuestionRepo{db: db, log: baseLog.With("repo", "AnsweredQuestionRepo")}
}

func (r *answeredQuestionRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *answeredQuestionRepo) Create(dbc dbctx.Context, answers []*domain.AnsweredQuestion) ([]*domain.AnsweredQuestion, error) {
	if len(answers) == 0 {
		return answers, nil
	}
	if err := r.tx(dbc).Create(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answeredQuestionRepo) ExistsByUserAndSurvey(dbc dbctx.Context, userID, surveyID uuid.UUID) (bool, error) {
	var count int64
	if err := r.tx(dbc).Model(&domain.AnsweredQuestion{}).
		Where("user_id = ? AND survey_id = ?", userID, surveyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *answeredQuestionRepo) ListBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.AnsweredQuestion, error) {
	var answers []*domain.AnsweredQuestion
	if err := r.tx(dbc).Where("survey_id = ?", surveyID).Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answeredQuestionRepo) ListByQuestionBankID(dbc dbctx.Context, questionBankID uuid.UUID) ([]*domain.AnsweredQuestion, error) {
	var answers []*domain.AnsweredQuestion
	if err := r.tx(dbc).Where("question_bank_id = ?", questionBankID).Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answeredQuestionRepo) DeleteBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) error {
	return r.tx(dbc).Where("survey_id = ?", surveyID).Delete(&domain.AnsweredQuestion{}).Error
}
