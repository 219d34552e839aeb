package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

type SurveyRepo interface {
	Create(dbc dbctx.Context, survey *domain.Survey) (*domain.Survey, error)
	GetByID(dbc dbctx.Context, surveyID uuid.UUID) (*domain.Survey, error)
	GetLatestByAuthorID(dbc dbctx.Context, authorID uuid.UUID) (*domain.Survey, error)
	ListByAuthorID(dbc dbctx.Context, authorID uuid.UUID) ([]*domain.Survey, error)
	ListPage(dbc dbctx.Context, page, pageSize int) ([]*domain.Survey, int64, error)
	Update(dbc dbctx.Context, survey *domain.Survey) error
	Delete(dbc dbctx.Context, surveyID uuid.UUID) error
	CountByAuthorID(dbc dbctx.Context, authorID uuid.UUID) (int64, error)
}

type surveyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyRepo(db *gorm.DB, baseLog *logger.Logger) SurveyRepo {
	return &surveyRepo{db: db, log: baseLog.With("repo", "SurveyRepo")}
}

func (r *surveyRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *surveyRepo) Create(dbc dbctx.Context, survey *domain.Survey) (*domain.Survey, error) {
	if err := r.tx(dbc).Create(survey).Error; err != nil {
		return nil, err
	}
	return survey, nil
}

func (r *surveyRepo) GetByID(dbc dbctx.Context, surveyID uuid.UUID) (*domain.Survey, error) {
	var survey domain.Survey
	err := r.tx(dbc).Where("id = ?", surveyID).First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepo) GetLatestByAuthorID(dbc dbctx.Context, authorID uuid.UUID) (*domain.Survey, error) {
	var survey domain.Survey
	err := r.tx(dbc).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepo) ListByAuthorID(dbc dbctx.Context, authorID uuid.UUID) ([]*domain.Survey, error) {
	var surveys []*domain.Survey
	if err := r.tx(dbc).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}

// ListPage returns one page (1-based) in descending creation order plus the
// total row count.
func (r *surveyRepo) ListPage(dbc dbctx.Context, page, pageSize int) ([]*domain.Survey, int64, error) {
	var total int64
	if err := r.tx(dbc).Model(&domain.Survey{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var surveys []*domain.Survey
	if err := r.tx(dbc).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&surveys).Error; err != nil {
		return nil, 0, err
	}
	return surveys, total, nil
}

func (r *surveyRepo) Update(dbc dbctx.Context, survey *domain.Survey) error {
	return r.tx(dbc).Save(survey).Error
}

func (r *surveyRepo) Delete(dbc dbctx.Context, surveyID uuid.UUID) error {
	return r.tx(dbc).Where("id = ?", surveyID).Delete(&domain.Survey{}).Error
}

func (r *surveyRepo) CountByAuthorID(dbc dbctx.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.tx(dbc).Model(&domain.Survey{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
