package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/thesurvey/api/internal/data/repos/testutil"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
)

func TestListBanksBySurveyIDFollowsQuestionOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewQuestionRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	now := time.Now().UTC()

	survey := testutil.SeedSurvey(t, ctx, tx, uuid.New(), now.Add(time.Hour), now.Add(2*time.Hour), nil)
	second, _ := testutil.SeedQuestion(t, ctx, tx, survey.ID, domain.QuestionShortAnswer, 2, false, nil)
	first, _ := testutil.SeedQuestion(t, ctx, tx, survey.ID, domain.QuestionSingleChoice, 1, true, []string{"a", "b"})

	banks, err := repo.ListBanksBySurveyID(dbc, survey.ID)
	if err != nil {
		t.Fatalf("banks: %v", err)
	}
	if len(banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(banks))
	}
	if banks[0].ID != first.ID || banks[1].ID != second.ID {
		t.Fatalf("banks not in question order: %v, %v", banks[0].ID, banks[1].ID)
	}
}

func TestGetBySurveyAndBank(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewQuestionRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	now := time.Now().UTC()

	survey := testutil.SeedSurvey(t, ctx, tx, uuid.New(), now.Add(time.Hour), now.Add(2*time.Hour), nil)
	bank, _ := testutil.SeedQuestion(t, ctx, tx, survey.ID, domain.QuestionLongAnswer, 1, true, nil)

	q, err := repo.GetBySurveyAndBank(dbc, survey.ID, bank.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if q == nil || q.QuestionBankID != bank.ID {
		t.Fatalf("expected pairing for bank %s, got %+v", bank.ID, q)
	}

	missing, err := repo.GetBySurveyAndBank(dbc, survey.ID, uuid.New())
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown bank")
	}
}

func TestDeleteBySurveyIDRemovesBanks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewQuestionRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	now := time.Now().UTC()

	survey := testutil.SeedSurvey(t, ctx, tx, uuid.New(), now.Add(time.Hour), now.Add(2*time.Hour), nil)
	bank, _ := testutil.SeedQuestion(t, ctx, tx, survey.ID, domain.QuestionShortAnswer, 1, false, nil)
	keepSurvey := testutil.SeedSurvey(t, ctx, tx, uuid.New(), now.Add(time.Hour), now.Add(2*time.Hour), nil)
	keepBank, _ := testutil.SeedQuestion(t, ctx, tx, keepSurvey.ID, domain.QuestionShortAnswer, 1, false, nil)

	if err := repo.DeleteBySurveyID(dbc, survey.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	gone, err := repo.GetBankByID(dbc, bank.ID)
	if err != nil {
		t.Fatalf("get deleted bank: %v", err)
	}
	if gone != nil {
		t.Fatalf("bank should have been deleted with its survey")
	}
	kept, err := repo.GetBankByID(dbc, keepBank.ID)
	if err != nil {
		t.Fatalf("get kept bank: %v", err)
	}
	if kept == nil {
		t.Fatalf("other survey's bank must survive")
	}
}
