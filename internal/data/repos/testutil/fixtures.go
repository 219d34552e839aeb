package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "tester",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedLedger writes one ledger entry directly, bypassing the service.
func SeedLedger(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta, balance int) *domain.PointHistory {
	tb.Helper()
	entry := &domain.PointHistory{
		UserID:          userID,
		Delta:           delta,
		Balance:         balance,
		TransactionDate: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		tb.Fatalf("seed ledger: %v", err)
	}
	return entry
}

func SeedSurvey(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID, started, ended time.Time, certs []domain.CertificationType) *domain.Survey {
	tb.Helper()
	if len(certs) == 0 {
		certs = []domain.CertificationType{domain.CertificationNone}
	}
	raw, _ := json.Marshal(certs)
	s := &domain.Survey{
		ID:                 uuid.New(),
		AuthorID:           authorID,
		Title:              "seeded survey",
		StartedDate:        started,
		EndedDate:          ended,
		CertificationTypes: datatypes.JSON(raw),
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed survey: %v", err)
	}
	return s
}

// SeedQuestion creates a bank row plus its survey pairing and returns both.
func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, surveyID uuid.UUID, qt domain.QuestionType, no int, required bool, options []string) (*domain.QuestionBank, *domain.Question) {
	tb.Helper()
	if options == nil {
		options = []string{}
	}
	raw, _ := json.Marshal(options)
	now := time.Now().UTC()
	bank := &domain.QuestionBank{
		ID:           uuid.New(),
		Title:        "seeded question",
		QuestionType: qt,
		Options:      datatypes.JSON(raw),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(bank).Error; err != nil {
		tb.Fatalf("seed question bank: %v", err)
	}
	q := &domain.Question{
		ID:             uuid.New(),
		SurveyID:       surveyID,
		QuestionBankID: bank.ID,
		QuestionNo:     no,
		IsRequired:     required,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return bank, q
}

func SeedCertification(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, ct domain.CertificationType) *domain.UserCertification {
	tb.Helper()
	now := time.Now().UTC()
	cert := &domain.UserCertification{
		ID:                uuid.New(),
		UserID:            userID,
		CertificationType: ct,
		CertificationDate: now,
		ExpirationDate:    now.AddDate(2, 0, 0),
	}
	if err := tx.WithContext(ctx).Create(cert).Error; err != nil {
		tb.Fatalf("seed certification: %v", err)
	}
	return cert
}
