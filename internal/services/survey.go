package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/lock"
	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/utils"
)

const (
	surveyPageSize   = 8
	creationThrottle = 30 * time.Second
	startDateSkew    = 5 * time.Second
)

// Lock key prefixes. Keys are "<operation>:<userID>" so two users never
// contend and one user's creations, deletions and submissions each serialize
// only with themselves.
const (
	lockCreateSurvey = "create-survey:"
	lockDeleteSurvey = "delete-survey:"
	lockSubmitAnswer = "submit-answer:"
)

type SurveyService interface {
	Create(ctx context.Context, authorID uuid.UUID, req SurveyRequest) (*SurveyResponse, error)
	Update(ctx context.Context, authorID, surveyID uuid.UUID, req SurveyUpdateRequest) (*SurveyResponse, error)
	Delete(ctx context.Context, authorID, surveyID uuid.UUID) error
	GetByID(ctx context.Context, userID, surveyID uuid.UUID) (*SurveyDetailResponse, error)
	ListPage(ctx context.Context, page int) (*SurveyPage, error)
	ListMine(ctx context.Context, authorID uuid.UUID) ([]*SurveyResponse, error)
}

type surveyService struct {
	db          *gorm.DB
	log         *logger.Logger
	locks       lock.Service
	lockTimeout time.Duration
	executor    *CommandExecutor

	surveys        repos.SurveyRepo
	questions      repos.QuestionRepo
	answers        repos.AnsweredQuestionRepo
	participations repos.ParticipationRepo
	points         PointHistoryService
	certs          CertificationService
}

func NewSurveyService(
	db *gorm.DB,
	locks lock.Service,
	lockTimeout time.Duration,
	executor *CommandExecutor,
	surveys repos.SurveyRepo,
	questions repos.QuestionRepo,
	answers repos.AnsweredQuestionRepo,
	participations repos.ParticipationRepo,
	points PointHistoryService,
	certs CertificationService,
	baseLog *logger.Logger,
) SurveyService {
	if lockTimeout <= 0 {
		lockTimeout = lock.DefaultAcquireTimeout
	}
	return &surveyService{
		db:             db,
		log:            baseLog.With("service", "SurveyService"),
		locks:          locks,
		lockTimeout:    lockTimeout,
		executor:       executor,
		surveys:        surveys,
		questions:      questions,
		answers:        answers,
		participations: participations,
		points:         points,
		certs:          certs,
	}
}

// Create validates the request, then debits the author and persists the
// survey under the author's creation lock. Validation runs before the lock so
// bad requests are rejected cheaply; the balance check is repeated inside
// Append under the lock, which is what actually bounds concurrent creations
// by the author's balance.
func (s *surveyService) Create(ctx context.Context, authorID uuid.UUID, req SurveyRequest) (*SurveyResponse, error) {
	req.Title = utils.Trim(req.Title)
	req.Description = utils.Trim(req.Description)
	if req.Title == "" {
		return nil, apperrors.New(apperrors.KindValidation, "survey_title_required", "survey title is required")
	}
	if len(req.Questions) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "survey_questions_required", "a survey needs at least one question")
	}
	for _, q := range req.Questions {
		if utils.Trim(q.Title) == "" {
			return nil, apperrors.New(apperrors.KindValidation, "question_title_required", "question title is required")
		}
	}
	certTypes, err := normalizeCertTypes(req.CertificationTypes)
	if err != nil {
		return nil, err
	}
	cost, err := TotalCreateCost(req.Questions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.StartedDate.Before(now.Add(-startDateSkew)) {
		return nil, apperrors.ErrStartedBeforeCurrent
	}
	if req.StartedDate.After(req.EndedDate) {
		return nil, apperrors.ErrStartedAfterEnded
	}

	dbc := dbctx.Context{Ctx: ctx}
	balance, err := s.points.CurrentBalance(dbc, authorID)
	if err != nil {
		return nil, err
	}
	if balance < cost {
		return nil, apperrors.ErrInsufficientPoints
	}
	latest, err := s.surveys.GetLatestByAuthorID(dbc, authorID)
	if err != nil {
		return nil, err
	}
	if latest != nil && now.Sub(latest.CreatedAt) < creationThrottle {
		return nil, apperrors.ErrRecentSurveyCreation
	}

	handle, err := s.acquire(ctx, lockCreateSurvey+authorID.String())
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, handle)

	survey := &domain.Survey{
		ID:                 uuid.New(),
		AuthorID:           authorID,
		Title:              req.Title,
		Description:        req.Description,
		StartedDate:        req.StartedDate.UTC(),
		EndedDate:          req.EndedDate.UTC(),
		CertificationTypes: encodeCertTypes(certTypes),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	banks, questionRows := buildQuestions(survey.ID, req.Questions, now)
	participationRows := buildParticipations(survey.ID, authorID, certTypes, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		return s.executor.ExecuteCommands([]Command{
			&appendPointsCommand{points: s.points, dbc: txc, userID: authorID, delta: -cost},
			&saveSurveyCommand{surveys: s.surveys, dbc: txc, survey: survey},
			&saveQuestionsCommand{questions: s.questions, dbc: txc, banks: banks, rows: questionRows},
			&saveParticipationsCommand{participations: s.participations, dbc: txc, rows: participationRows},
		})
	})
	if err != nil {
		return nil, err
	}

	reward, err := TotalMaxReward(banks)
	if err != nil {
		return nil, err
	}
	s.log.Info("survey created", "survey_id", survey.ID, "author_id", authorID, "cost", cost)
	return toSurveyResponse(survey, reward), nil
}

// Update patches title, description or window of a survey that has not
// started yet. No lock is needed: no points move and the row update is
// atomic on its own.
func (s *surveyService) Update(ctx context.Context, authorID, surveyID uuid.UUID, req SurveyUpdateRequest) (*SurveyResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}
	survey, err := s.surveys.GetByID(dbc, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, apperrors.ErrSurveyNotFound
	}
	if survey.AuthorID != authorID {
		return nil, apperrors.ErrAuthorNotMatching
	}
	now := time.Now().UTC()
	if !now.Before(survey.StartedDate) {
		return nil, apperrors.ErrSurveyAlreadyStarted
	}

	if req.Title != nil {
		title := utils.Trim(*req.Title)
		if title == "" {
			return nil, apperrors.New(apperrors.KindValidation, "survey_title_required", "survey title is required")
		}
		survey.Title = title
	}
	if req.Description != nil {
		survey.Description = utils.Trim(*req.Description)
	}
	if req.StartedDate != nil {
		survey.StartedDate = req.StartedDate.UTC()
	}
	if req.EndedDate != nil {
		survey.EndedDate = req.EndedDate.UTC()
	}
	if survey.StartedDate.Before(now.Add(-startDateSkew)) {
		return nil, apperrors.ErrStartedBeforeCurrent
	}
	if survey.StartedDate.After(survey.EndedDate) {
		return nil, apperrors.ErrStartedAfterEnded
	}
	survey.UpdatedAt = now

	if err := s.surveys.Update(dbc, survey); err != nil {
		return nil, err
	}
	reward, err := s.rewardFor(dbc, survey.ID)
	if err != nil {
		return nil, err
	}
	return toSurveyResponse(survey, reward), nil
}

// Delete refunds the author's create cost and removes the survey with its
// questions, answers and participations. A survey whose window has opened is
// immutable and cannot be deleted.
func (s *surveyService) Delete(ctx context.Context, authorID, surveyID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	survey, err := s.surveys.GetByID(dbc, surveyID)
	if err != nil {
		return err
	}
	if survey == nil {
		return apperrors.ErrSurveyNotFound
	}
	if survey.AuthorID != authorID {
		return apperrors.ErrAuthorNotMatching
	}
	if !time.Now().UTC().Before(survey.StartedDate) {
		return apperrors.ErrSurveyAlreadyStarted
	}

	banks, err := s.questions.ListBanksBySurveyID(dbc, surveyID)
	if err != nil {
		return err
	}
	refund := 0
	for _, b := range banks {
		cost, err := SurveyCreatePoints(b.QuestionType)
		if err != nil {
			return err
		}
		refund += cost
	}

	handle, err := s.acquire(ctx, lockDeleteSurvey+authorID.String())
	if err != nil {
		return err
	}
	defer s.release(ctx, handle)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		return s.executor.ExecuteCommands([]Command{
			&appendPointsCommand{points: s.points, dbc: txc, userID: authorID, delta: refund},
			&deleteSurveyCascadeCommand{
				surveys:        s.surveys,
				questions:      s.questions,
				answers:        s.answers,
				participations: s.participations,
				dbc:            txc,
				surveyID:       surveyID,
			},
		})
	})
	if err != nil {
		return err
	}
	s.log.Info("survey deleted", "survey_id", surveyID, "author_id", authorID, "refund", refund)
	return nil
}

// GetByID returns the survey with its questions. Non-authors must hold the
// survey's required certifications to view it.
func (s *surveyService) GetByID(ctx context.Context, userID, surveyID uuid.UUID) (*SurveyDetailResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}
	survey, err := s.surveys.GetByID(dbc, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, apperrors.ErrSurveyNotFound
	}
	if survey.AuthorID != userID {
		if err := s.certs.EnsureHoldsAll(dbc, userID, decodeCertTypes(survey.CertificationTypes)); err != nil {
			return nil, err
		}
	}

	banks, err := s.questions.ListBanksBySurveyID(dbc, surveyID)
	if err != nil {
		return nil, err
	}
	questionRows, err := s.questions.ListBySurveyID(dbc, surveyID)
	if err != nil {
		return nil, err
	}
	reward, err := TotalMaxReward(banks)
	if err != nil {
		return nil, err
	}

	bankByID := make(map[uuid.UUID]*domain.QuestionBank, len(banks))
	for _, b := range banks {
		bankByID[b.ID] = b
	}
	questionResponses := make([]QuestionResponse, 0, len(questionRows))
	for _, q := range questionRows {
		bank, ok := bankByID[q.QuestionBankID]
		if !ok {
			continue
		}
		questionResponses = append(questionResponses, QuestionResponse{
			QuestionBankID: bank.ID,
			Title:          bank.Title,
			Description:    bank.Description,
			QuestionType:   bank.QuestionType,
			QuestionNo:     q.QuestionNo,
			IsRequired:     q.IsRequired,
			Options:        decodeOptions(bank.Options),
		})
	}
	return &SurveyDetailResponse{
		SurveyResponse: *toSurveyResponse(survey, reward),
		Questions:      questionResponses,
	}, nil
}

func (s *surveyService) ListPage(ctx context.Context, page int) (*SurveyPage, error) {
	if page < 1 {
		page = 1
	}
	dbc := dbctx.Context{Ctx: ctx}
	surveys, total, err := s.surveys.ListPage(dbc, page, surveyPageSize)
	if err != nil {
		return nil, err
	}
	responses, err := s.toResponses(dbc, surveys)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + surveyPageSize - 1) / surveyPageSize)
	return &SurveyPage{
		Surveys:       responses,
		Page:          page,
		TotalPages:    totalPages,
		TotalElements: total,
	}, nil
}

func (s *surveyService) ListMine(ctx context.Context, authorID uuid.UUID) ([]*SurveyResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}
	surveys, err := s.surveys.ListByAuthorID(dbc, authorID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(dbc, surveys)
}

func (s *surveyService) acquire(ctx context.Context, key string) (*lock.Handle, error) {
	handle, err := s.locks.Acquire(ctx, key, s.lockTimeout)
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			return nil, apperrors.ErrLockTimeout
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "lock_acquire_failed", "could not acquire lock", err)
	}
	return handle, nil
}

func (s *surveyService) release(ctx context.Context, handle *lock.Handle) {
	if err := s.locks.Release(ctx, handle); err != nil {
		s.log.Warn("failed to release lock", "key", handle.Key, "error", err)
	}
}

func (s *surveyService) rewardFor(dbc dbctx.Context, surveyID uuid.UUID) (int, error) {
	banks, err := s.questions.ListBanksBySurveyID(dbc, surveyID)
	if err != nil {
		return 0, err
	}
	return TotalMaxReward(banks)
}

func (s *surveyService) toResponses(dbc dbctx.Context, surveys []*domain.Survey) ([]*SurveyResponse, error) {
	responses := make([]*SurveyResponse, 0, len(surveys))
	for _, survey := range surveys {
		reward, err := s.rewardFor(dbc, survey.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, toSurveyResponse(survey, reward))
	}
	return responses, nil
}

func toSurveyResponse(survey *domain.Survey, reward int) *SurveyResponse {
	return &SurveyResponse{
		SurveyID:           survey.ID,
		AuthorID:           survey.AuthorID,
		Title:              survey.Title,
		Description:        survey.Description,
		StartedDate:        survey.StartedDate,
		EndedDate:          survey.EndedDate,
		CertificationTypes: decodeCertTypes(survey.CertificationTypes),
		RewardPoints:       reward,
		CreatedAt:          survey.CreatedAt,
	}
}

func buildQuestions(surveyID uuid.UUID, requests []QuestionRequest, now time.Time) ([]*domain.QuestionBank, []*domain.Question) {
	banks := make([]*domain.QuestionBank, 0, len(requests))
	rows := make([]*domain.Question, 0, len(requests))
	for i, q := range requests {
		bank := &domain.QuestionBank{
			ID:           uuid.New(),
			Title:        utils.Trim(q.Title),
			Description:  utils.Trim(q.Description),
			QuestionType: q.QuestionType,
			Options:      encodeOptions(q.Options),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		no := q.QuestionNo
		if no == 0 {
			no = i + 1
		}
		banks = append(banks, bank)
		rows = append(rows, &domain.Question{
			ID:             uuid.New(),
			SurveyID:       surveyID,
			QuestionBankID: bank.ID,
			QuestionNo:     no,
			IsRequired:     q.IsRequired,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return banks, rows
}
