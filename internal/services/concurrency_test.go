package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/data/repos/testutil"
	"github.com/thesurvey/api/internal/domain"
)

// These tests need real cross-connection transaction semantics and are gated
// on TEST_POSTGRES_DSN.

func TestConcurrentCreationBoundedByBalance(t *testing.T) {
	testutil.PostgresDB(t)
	env := newTestEnv(t)
	author := env.registerUser(t)
	ctx := context.Background()

	// 50 points at 2 per survey allows exactly 25 creations.
	const workers = 30

	var mu sync.Mutex
	created := 0
	rejected := 0

	start := make(chan struct{})
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			<-start
			_, err := env.survey.Create(ctx, author.ID, validSurveyRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, apperrors.ErrInsufficientPoints):
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	close(start)
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected creation error: %v", err)
	}

	if created != 25 || rejected != 5 {
		t.Fatalf("expected 25 created / 5 rejected, got %d / %d", created, rejected)
	}
	count, err := env.surveys.CountByAuthorID(testDBC(), author.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 25 {
		t.Fatalf("expected 25 persisted surveys, got %d", count)
	}
	if got := env.balance(t, author.ID); got != 0 {
		t.Fatalf("expected final balance 0, got %d", got)
	}
}

func TestConcurrentSubmissionExactlyOnce(t *testing.T) {
	testutil.PostgresDB(t)
	env := newTestEnv(t)
	author := env.registerUser(t)
	respondent := env.registerUser(t)
	ctx := context.Background()

	survey, choiceBank, _ := openSurvey(t, env, author.ID, nil)
	choice := 0
	req := AnswerRequest{
		SurveyID: survey.ID,
		Answers:  []AnswerItem{{QuestionBankID: choiceBank.ID, SingleChoice: &choice}},
	}

	const workers = 10
	var mu sync.Mutex
	succeeded := 0
	duplicates := 0

	start := make(chan struct{})
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			<-start
			_, err := env.answer.Submit(ctx, respondent.ID, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrAnswerAlreadySubmitted):
				duplicates++
			default:
				return err
			}
			return nil
		})
	}
	close(start)
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected submission error: %v", err)
	}

	if succeeded != 1 {
		t.Fatalf("expected exactly one successful submission, got %d", succeeded)
	}
	if duplicates != workers-1 {
		t.Fatalf("expected %d duplicate rejections, got %d", workers-1, duplicates)
	}

	rows, err := env.answers.ListBySurveyID(testDBC(), survey.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one answer row, got %d", len(rows))
	}
	if got := env.balance(t, respondent.ID); got != domain.UserInitialPoint+1 {
		t.Fatalf("expected exactly one reward credit, got balance %d", got)
	}
}
