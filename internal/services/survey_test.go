package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/data/repos/testutil"
	"github.com/thesurvey/api/internal/domain"
)

func TestCreateSurveyDebitsAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()

	resp, err := env.survey.Create(ctx, author.ID, validSurveyRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.RewardPoints != 1 {
		t.Fatalf("expected reward 1 for a single choice survey, got %d", resp.RewardPoints)
	}
	if got := env.balance(t, author.ID); got != 48 {
		t.Fatalf("expected balance 48 after a cost-2 creation, got %d", got)
	}

	// Survey, question pairing and author participation must all exist.
	survey, err := env.surveys.GetByID(testDBC(), resp.SurveyID)
	if err != nil || survey == nil {
		t.Fatalf("survey row missing: %v", err)
	}
	questions, err := env.questions.ListBySurveyID(testDBC(), resp.SurveyID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	participations, err := env.parts.ListBySurveyID(testDBC(), resp.SurveyID)
	if err != nil {
		t.Fatalf("participations: %v", err)
	}
	if len(participations) != 1 || participations[0].CertificationType != domain.CertificationNone {
		t.Fatalf("expected one NONE participation row for the author, got %v", participations)
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()

	req := validSurveyRequest()
	req.StartedDate = time.Now().UTC().Add(-time.Minute)
	if _, err := env.survey.Create(ctx, author.ID, req); !errors.Is(err, apperrors.ErrStartedBeforeCurrent) {
		t.Fatalf("expected ErrStartedBeforeCurrent, got %v", err)
	}

	req = validSurveyRequest()
	req.EndedDate = req.StartedDate.Add(-time.Hour)
	if _, err := env.survey.Create(ctx, author.ID, req); !errors.Is(err, apperrors.ErrStartedAfterEnded) {
		t.Fatalf("expected ErrStartedAfterEnded, got %v", err)
	}

	req = validSurveyRequest()
	req.Title = "   "
	if _, err := env.survey.Create(ctx, author.ID, req); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}

	req = validSurveyRequest()
	req.Questions = nil
	if _, err := env.survey.Create(ctx, author.ID, req); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error for no questions, got %v", err)
	}

	req = validSurveyRequest()
	req.CertificationTypes = []domain.CertificationType{"LINKEDIN"}
	if _, err := env.survey.Create(ctx, author.ID, req); !errors.Is(err, apperrors.ErrInvalidCertificationSet) {
		t.Fatalf("expected ErrInvalidCertificationSet, got %v", err)
	}

	// No writes must have happened.
	if got := env.balance(t, author.ID); got != domain.UserInitialPoint {
		t.Fatalf("expected untouched balance %d, got %d", domain.UserInitialPoint, got)
	}
}

func TestCreateSurveyInsufficientPoints(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()

	// Six long answers cost 60, above the 50 point registration bonus.
	questions := make([]QuestionRequest, 6)
	for i := range questions {
		questions[i] = QuestionRequest{
			Title:        "explain",
			QuestionType: domain.QuestionLongAnswer,
			QuestionNo:   i + 1,
		}
	}
	if _, err := env.survey.Create(ctx, author.ID, validSurveyRequest(questions...)); !errors.Is(err, apperrors.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	if got := env.balance(t, author.ID); got != domain.UserInitialPoint {
		t.Fatalf("expected untouched balance, got %d", got)
	}
}

func TestCreateSurveyThrottle(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()

	if _, err := env.survey.Create(ctx, author.ID, validSurveyRequest()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := env.survey.Create(ctx, author.ID, validSurveyRequest()); !errors.Is(err, apperrors.ErrRecentSurveyCreation) {
		t.Fatalf("expected ErrRecentSurveyCreation, got %v", err)
	}
	// Only the first creation may have debited.
	if got := env.balance(t, author.ID); got != 48 {
		t.Fatalf("expected balance 48, got %d", got)
	}
}

func TestDeleteSurveyRefundsAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()

	resp, err := env.survey.Create(ctx, author.ID, validSurveyRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.survey.Delete(ctx, author.ID, resp.SurveyID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := env.balance(t, author.ID); got != domain.UserInitialPoint {
		t.Fatalf("expected full refund back to %d, got %d", domain.UserInitialPoint, got)
	}

	survey, err := env.surveys.GetByID(testDBC(), resp.SurveyID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if survey != nil {
		t.Fatalf("survey should be gone")
	}
	questions, err := env.questions.ListBySurveyID(testDBC(), resp.SurveyID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("questions should cascade, got %d rows", len(questions))
	}
	participations, err := env.parts.ListBySurveyID(testDBC(), resp.SurveyID)
	if err != nil {
		t.Fatalf("participations: %v", err)
	}
	if len(participations) != 0 {
		t.Fatalf("participations should cascade, got %d rows", len(participations))
	}
}

func TestDeleteSurveyGuards(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	other := env.registerUser(t)
	ctx := context.Background()

	resp, err := env.survey.Create(ctx, author.ID, validSurveyRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := env.survey.Delete(ctx, other.ID, resp.SurveyID); !errors.Is(err, apperrors.ErrAuthorNotMatching) {
		t.Fatalf("expected ErrAuthorNotMatching, got %v", err)
	}
	if err := env.survey.Delete(ctx, author.ID, uuid.New()); !errors.Is(err, apperrors.ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound for a random id, got %v", err)
	}

	// A survey whose window has opened is immutable.
	now := time.Now().UTC()
	started := testutil.SeedSurvey(t, ctx, env.db, author.ID, now.Add(-time.Hour), now.Add(time.Hour), nil)
	if err := env.survey.Delete(ctx, author.ID, started.ID); !errors.Is(err, apperrors.ErrSurveyAlreadyStarted) {
		t.Fatalf("expected ErrSurveyAlreadyStarted, got %v", err)
	}
}

func TestUpdateSurvey(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	other := env.registerUser(t)
	ctx := context.Background()

	resp, err := env.survey.Create(ctx, author.ID, validSurveyRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "renamed survey"
	updated, err := env.survey.Update(ctx, author.ID, resp.SurveyID, SurveyUpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected title %q, got %q", title, updated.Title)
	}

	if _, err := env.survey.Update(ctx, other.ID, resp.SurveyID, SurveyUpdateRequest{Title: &title}); !errors.Is(err, apperrors.ErrAuthorNotMatching) {
		t.Fatalf("expected ErrAuthorNotMatching, got %v", err)
	}

	bad := time.Now().UTC().Add(-time.Hour)
	if _, err := env.survey.Update(ctx, author.ID, resp.SurveyID, SurveyUpdateRequest{StartedDate: &bad}); !errors.Is(err, apperrors.ErrStartedBeforeCurrent) {
		t.Fatalf("expected ErrStartedBeforeCurrent, got %v", err)
	}

	now := time.Now().UTC()
	started := testutil.SeedSurvey(t, ctx, env.db, author.ID, now.Add(-time.Hour), now.Add(time.Hour), nil)
	if _, err := env.survey.Update(ctx, author.ID, started.ID, SurveyUpdateRequest{Title: &title}); !errors.Is(err, apperrors.ErrSurveyAlreadyStarted) {
		t.Fatalf("expected ErrSurveyAlreadyStarted, got %v", err)
	}
}

func TestGetSurveyCertificationGating(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	viewer := env.registerUser(t)
	ctx := context.Background()

	req := validSurveyRequest()
	req.CertificationTypes = []domain.CertificationType{domain.CertificationGoogle}
	resp, err := env.survey.Create(ctx, author.ID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The author always sees their own survey.
	if _, err := env.survey.GetByID(ctx, author.ID, resp.SurveyID); err != nil {
		t.Fatalf("author get: %v", err)
	}

	if _, err := env.survey.GetByID(ctx, viewer.ID, resp.SurveyID); !errors.Is(err, apperrors.ErrCertificationNotHeld) {
		t.Fatalf("expected ErrCertificationNotHeld, got %v", err)
	}

	if _, err := env.certs.Grant(ctx, viewer.ID, []domain.CertificationType{domain.CertificationGoogle}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	detail, err := env.survey.GetByID(ctx, viewer.ID, resp.SurveyID)
	if err != nil {
		t.Fatalf("certified get: %v", err)
	}
	if len(detail.Questions) != 1 {
		t.Fatalf("expected 1 question in detail, got %d", len(detail.Questions))
	}
	if len(detail.Questions[0].Options) != 2 {
		t.Fatalf("expected 2 options, got %v", detail.Questions[0].Options)
	}
}

func TestListMine(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		testutil.SeedSurvey(t, ctx, env.db, author.ID, now.Add(time.Hour), now.Add(2*time.Hour), nil)
	}
	mine, err := env.survey.ListMine(ctx, author.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("expected 3 surveys, got %d", len(mine))
	}
}

func TestListPage(t *testing.T) {
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 10; i++ {
		testutil.SeedSurvey(t, ctx, env.db, author.ID, now.Add(time.Hour), now.Add(2*time.Hour), nil)
	}

	page, err := env.survey.ListPage(ctx, 1)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("expected page 1, got %d", page.Page)
	}
	if len(page.Surveys) != surveyPageSize {
		t.Fatalf("expected a full page of %d, got %d", surveyPageSize, len(page.Surveys))
	}
	if page.TotalElements < 10 {
		t.Fatalf("expected at least 10 surveys total, got %d", page.TotalElements)
	}
	if page.TotalPages < 2 {
		t.Fatalf("expected at least 2 pages, got %d", page.TotalPages)
	}

	// A non-positive page is clamped to the first page.
	first, err := env.survey.ListPage(ctx, 0)
	if err != nil {
		t.Fatalf("list page 0: %v", err)
	}
	if first.Page != 1 {
		t.Fatalf("expected clamped page 1, got %d", first.Page)
	}
}
