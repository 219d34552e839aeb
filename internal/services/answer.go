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
	"github.com/thesurvey/api/internal/platform/lock"
	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/utils"
)

type AnsweredQuestionService interface {
	Submit(ctx context.Context, userID uuid.UUID, req AnswerRequest) (*AnswerResponse, error)
	// ListBySurvey returns the raw answer rows of a survey. Only the author
	// may read them.
	ListBySurvey(ctx context.Context, userID, surveyID uuid.UUID) ([]*domain.AnsweredQuestion, error)
}

type answeredQuestionService struct {
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

func NewAnsweredQuestionService(
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
) AnsweredQuestionService {
	if lockTimeout <= 0 {
		lockTimeout = lock.DefaultAcquireTimeout
	}
	return &answeredQuestionService{
		db:             db,
		log:            baseLog.With("service", "AnsweredQuestionService"),
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

// Submit validates eligibility and the answers, then persists the answer
// rows, credits the reward and records participation under the respondent's
// submission lock. The "already submitted" check is repeated inside the
// transaction while the lock is held, which is what makes concurrent
// duplicate submissions from one user collapse to exactly one.
func (s *answeredQuestionService) Submit(ctx context.Context, userID uuid.UUID, req AnswerRequest) (*AnswerResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}
	survey, err := s.surveys.GetByID(dbc, req.SurveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, apperrors.ErrSurveyNotFound
	}

	required := decodeCertTypes(survey.CertificationTypes)
	if err := s.certs.EnsureHoldsAll(dbc, userID, required); err != nil {
		return nil, err
	}
	// Author check comes before the participation check: authors get their
	// own participation rows at creation time and must see ForbiddenError,
	// not AlreadySubmittedError.
	if survey.AuthorID == userID {
		return nil, apperrors.ErrAuthorCannotAnswer
	}
	if err := s.ensureNotSubmitted(dbc, userID, survey.ID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if now.Before(survey.StartedDate) {
		return nil, apperrors.ErrSurveyNotStarted
	}
	if now.After(survey.EndedDate) {
		return nil, apperrors.ErrSurveyAlreadyEnded
	}

	rows, reward, err := s.validateAnswers(dbc, survey.ID, userID, req.Answers, now)
	if err != nil {
		return nil, err
	}

	handle, err := s.locks.Acquire(ctx, lockSubmitAnswer+userID.String(), s.lockTimeout)
	if err != nil {
		if err == lock.ErrTimeout {
			return nil, apperrors.ErrLockTimeout
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "lock_acquire_failed", "could not acquire lock", err)
	}
	defer func() {
		if rerr := s.locks.Release(ctx, handle); rerr != nil {
			s.log.Warn("failed to release lock", "key", handle.Key, "error", rerr)
		}
	}()

	participationRows := buildParticipations(survey.ID, userID, required, now)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.ensureNotSubmitted(txc, userID, survey.ID); err != nil {
			return err
		}
		return s.executor.ExecuteCommands([]Command{
			&saveAnswersCommand{answers: s.answers, dbc: txc, rows: rows},
			&appendPointsCommand{points: s.points, dbc: txc, userID: userID, delta: reward},
			&saveParticipationsCommand{participations: s.participations, dbc: txc, rows: participationRows},
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("answers submitted", "survey_id", survey.ID, "user_id", userID, "reward", reward)
	return &AnswerResponse{RewardPoints: reward}, nil
}

func (s *answeredQuestionService) ListBySurvey(ctx context.Context, userID, surveyID uuid.UUID) ([]*domain.AnsweredQuestion, error) {
	dbc := dbctx.Context{Ctx: ctx}
	survey, err := s.surveys.GetByID(dbc, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, apperrors.ErrSurveyNotFound
	}
	if survey.AuthorID != userID {
		return nil, apperrors.ErrAuthorNotMatching
	}
	return s.answers.ListBySurveyID(dbc, surveyID)
}

func (s *answeredQuestionService) ensureNotSubmitted(dbc dbctx.Context, userID, surveyID uuid.UUID) error {
	answered, err := s.answers.ExistsByUserAndSurvey(dbc, userID, surveyID)
	if err != nil {
		return err
	}
	if answered {
		return apperrors.ErrAnswerAlreadySubmitted
	}
	participated, err := s.participations.ExistsBySurveyAndUser(dbc, surveyID, userID)
	if err != nil {
		return err
	}
	if participated {
		return apperrors.ErrAnswerAlreadySubmitted
	}
	return nil
}

// validateAnswers checks every submitted answer against the survey's actual
// questions and builds the rows to persist. Multiple-choice answers fan out
// to one row per selected option.
func (s *answeredQuestionService) validateAnswers(dbc dbctx.Context, surveyID, userID uuid.UUID, answers []AnswerItem, now time.Time) ([]*domain.AnsweredQuestion, int, error) {
	questionRows, err := s.questions.ListBySurveyID(dbc, surveyID)
	if err != nil {
		return nil, 0, err
	}
	banks, err := s.questions.ListBanksBySurveyID(dbc, surveyID)
	if err != nil {
		return nil, 0, err
	}
	questionByBank := make(map[uuid.UUID]*domain.Question, len(questionRows))
	for _, q := range questionRows {
		questionByBank[q.QuestionBankID] = q
	}
	bankByID := make(map[uuid.UUID]*domain.QuestionBank, len(banks))
	for _, b := range banks {
		bankByID[b.ID] = b
	}

	rows := make([]*domain.AnsweredQuestion, 0, len(answers))
	answeredBanks := make(map[uuid.UUID]bool, len(answers))
	reward := 0
	for _, a := range answers {
		question, ok := questionByBank[a.QuestionBankID]
		if !ok {
			return nil, 0, apperrors.ErrNotSurveyQuestion
		}
		bank := bankByID[a.QuestionBankID]
		if bank == nil {
			return nil, 0, apperrors.ErrNotSurveyQuestion
		}

		if emptyAnswer(a, bank.QuestionType) {
			if question.IsRequired {
				return nil, 0, apperrors.ErrRequiredAnswerMissing
			}
			continue
		}

		built, err := buildAnswerRows(surveyID, userID, bank, a, now)
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, built...)
		answeredBanks[a.QuestionBankID] = true

		points, err := SurveyMaxRewardPoints(bank.QuestionType)
		if err != nil {
			return nil, 0, err
		}
		reward += points
	}

	// Required questions omitted from the request entirely count as missing.
	for _, q := range questionRows {
		if q.IsRequired && !answeredBanks[q.QuestionBankID] {
			return nil, 0, apperrors.ErrRequiredAnswerMissing
		}
	}
	if len(rows) == 0 {
		return nil, 0, apperrors.ErrNoAnswerProvided
	}
	return rows, reward, nil
}

func emptyAnswer(a AnswerItem, qt domain.QuestionType) bool {
	switch qt {
	case domain.QuestionSingleChoice:
		return a.SingleChoice == nil
	case domain.QuestionMultipleChoices:
		return len(a.MultipleChoices) == 0
	case domain.QuestionShortAnswer:
		return utils.Trim(a.ShortAnswer) == ""
	case domain.QuestionLongAnswer:
		return utils.Trim(a.LongAnswer) == ""
	}
	return true
}

func buildAnswerRows(surveyID, userID uuid.UUID, bank *domain.QuestionBank, a AnswerItem, now time.Time) ([]*domain.AnsweredQuestion, error) {
	options := decodeOptions(bank.Options)
	base := domain.AnsweredQuestion{
		SurveyID:       surveyID,
		UserID:         userID,
		QuestionBankID: bank.ID,
		QuestionType:   bank.QuestionType,
		CreatedAt:      now,
	}
	switch bank.QuestionType {
	case domain.QuestionSingleChoice:
		if *a.SingleChoice < 0 || *a.SingleChoice >= len(options) {
			return nil, apperrors.ErrInvalidChoiceOption
		}
		row := base
		row.ID = uuid.New()
		choice := *a.SingleChoice
		row.SingleChoice = &choice
		return []*domain.AnsweredQuestion{&row}, nil
	case domain.QuestionMultipleChoices:
		rows := make([]*domain.AnsweredQuestion, 0, len(a.MultipleChoices))
		for _, choice := range a.MultipleChoices {
			if choice < 0 || choice >= len(options) {
				return nil, apperrors.ErrInvalidChoiceOption
			}
			row := base
			row.ID = uuid.New()
			c := choice
			row.MultipleChoice = &c
			rows = append(rows, &row)
		}
		return rows, nil
	case domain.QuestionShortAnswer:
		row := base
		row.ID = uuid.New()
		row.ShortAnswer = utils.Trim(a.ShortAnswer)
		return []*domain.AnsweredQuestion{&row}, nil
	case domain.QuestionLongAnswer:
		row := base
		row.ID = uuid.New()
		row.LongAnswer = utils.Trim(a.LongAnswer)
		return []*domain.AnsweredQuestion{&row}, nil
	}
	return nil, apperrors.ErrInvalidQuestionType
}
