package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/data/repos/testutil"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/lock"
	"github.com/thesurvey/api/internal/platform/logger"
)

func testDBC() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

type testEnv struct {
	db    *gorm.DB
	log   *logger.Logger
	locks lock.Service

	userRepo  repos.UserRepo
	pointRepo repos.PointHistoryRepo
	surveys   repos.SurveyRepo
	questions repos.QuestionRepo
	answers   repos.AnsweredQuestionRepo
	parts     repos.ParticipationRepo
	certRepo  repos.UserCertificationRepo

	points PointHistoryService
	certs  CertificationService
	user   UserService
	survey SurveyService
	answer AnsweredQuestionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	locks := lock.NewLocalService()
	executor := NewCommandExecutor(log)

	env := &testEnv{
		db:        db,
		log:       log,
		locks:     locks,
		userRepo:  repos.NewUserRepo(db, log),
		pointRepo: repos.NewPointHistoryRepo(db, log),
		surveys:   repos.NewSurveyRepo(db, log),
		questions: repos.NewQuestionRepo(db, log),
		answers:   repos.NewAnsweredQuestionRepo(db, log),
		parts:     repos.NewParticipationRepo(db, log),
		certRepo:  repos.NewUserCertificationRepo(db, log),
	}
	env.points = NewPointHistoryService(env.pointRepo, log)
	env.certs = NewCertificationService(db, env.certRepo, log)
	env.user = NewUserService(db, env.userRepo, env.points, log)
	env.survey = NewSurveyService(
		db, locks, 0, executor,
		env.surveys, env.questions, env.answers, env.parts,
		env.points, env.certs, log,
	)
	env.answer = NewAnsweredQuestionService(
		db, locks, 0, executor,
		env.surveys, env.questions, env.answers, env.parts,
		env.points, env.certs, log,
	)
	return env
}

// registerUser creates a user through the service so they start with the
// registration bonus.
func (env *testEnv) registerUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := env.user.Register(context.Background(), RegisterRequest{
		Name:     "tester",
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "Password40@",
	})
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	return user
}

func (env *testEnv) balance(t *testing.T, userID uuid.UUID) int {
	t.Helper()
	balance, err := env.points.CurrentBalance(testDBC(), userID)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}
	return balance
}

func validSurveyRequest(questions ...QuestionRequest) SurveyRequest {
	now := time.Now().UTC()
	if len(questions) == 0 {
		questions = []QuestionRequest{{
			Title:        "pick one",
			QuestionType: domain.QuestionSingleChoice,
			QuestionNo:   1,
			IsRequired:   true,
			Options:      []string{"yes", "no"},
		}}
	}
	return SurveyRequest{
		Title:       "test survey",
		Description: "a survey used in tests",
		StartedDate: now.Add(time.Hour),
		EndedDate:   now.Add(48 * time.Hour),
		Questions:   questions,
	}
}
