package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

type QuestionRepo interface {
	CreateBanks(dbc dbctx.Context, banks []*domain.QuestionBank) ([]*domain.QuestionBank, error)
	CreateQuestions(dbc dbctx.Context, questions []*domain.Question) ([]*domain.Question, error)
	GetBySurveyAndBank(dbc dbctx.Context, surveyID, questionBankID uuid.UUID) (*domain.Question, error)
	ListBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.Question, error)
	ListBanksBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.QuestionBank, error)
	GetBankByID(dbc dbctx.Context, questionBankID uuid.UUID) (*domain.QuestionBank, error)
	DeleteBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *questionRepo) CreateBanks(dbc dbctx.Context, banks []*domain.QuestionBank) ([]*domain.QuestionBank, error) {
	if len(banks) == 0 {
		return banks, nil
	}
	if err := r.tx(dbc).Create(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *questionRepo) CreateQuestions(dbc dbctx.Context, questions []*domain.Question) ([]*domain.Question, error) {
	if len(questions) == 0 {
		return questions, nil
	}
	if err := r.tx(dbc).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetBySurveyAndBank(dbc dbctx.Context, surveyID, questionBankID uuid.UUID) (*domain.Question, error) {
	var question domain.Question
	err := r.tx(dbc).
		Where("survey_id = ? AND question_bank_id = ?", surveyID, questionBankID).
		First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) ListBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.Question, error) {
	var questions []*domain.Question
	if err := r.tx(dbc).
		Where("survey_id = ?", surveyID).
		Order("question_no ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) ListBanksBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) ([]*domain.QuestionBank, error) {
	var banks []*domain.QuestionBank
	if err := r.tx(dbc).
		Joins(`JOIN "question" ON "question"."question_bank_id" = "question_bank"."id"`).
		Where(`"question"."survey_id" = ?`, surveyID).
		Order(`"question"."question_no" ASC`).
		Find(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *questionRepo) GetBankByID(dbc dbctx.Context, questionBankID uuid.UUID) (*domain.QuestionBank, error) {
	var bank domain.QuestionBank
	err := r.tx(dbc).Where("id = ?", questionBankID).First(&bank).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

// DeleteBySurveyID removes the survey's question rows and their bank rows.
// Bank rows belong to exactly one survey pairing, so they go with the survey.
func (r *questionRepo) DeleteBySurveyID(dbc dbctx.Context, surveyID uuid.UUID) error {
	var questions []*domain.Question
	if err := r.tx(dbc).Where("survey_id = ?", surveyID).Find(&questions).Error; err != nil {
		return err
	}
	bankIDs := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		bankIDs = append(bankIDs, q.QuestionBankID)
	}
	if err := r.tx(dbc).Where("survey_id = ?", surveyID).Delete(&domain.Question{}).Error; err != nil {
		return err
	}
	if len(bankIDs) == 0 {
		return nil
	}
	return r.tx(dbc).Where("id IN ?", bankIDs).Delete(&domain.QuestionBank{}).Error
}
