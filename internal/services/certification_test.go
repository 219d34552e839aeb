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

func TestGrantAndListCertifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	certs, err := env.certs.Grant(ctx, userID, []domain.CertificationType{
		domain.CertificationGoogle,
		domain.CertificationKakao,
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if len(certs) != 2 {
		t.Fatalf("expected 2 certifications, got %d", len(certs))
	}

	// Granting an already held type must not duplicate it.
	certs, err = env.certs.Grant(ctx, userID, []domain.CertificationType{domain.CertificationGoogle})
	if err != nil {
		t.Fatalf("regrant: %v", err)
	}
	if len(certs) != 2 {
		t.Fatalf("expected 2 certifications after regrant, got %d", len(certs))
	}
}

func TestGrantRejectsInvalidTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.certs.Grant(ctx, uuid.New(), []domain.CertificationType{"LINKEDIN"}); !errors.Is(err, apperrors.ErrInvalidCertificationSet) {
		t.Fatalf("expected ErrInvalidCertificationSet, got %v", err)
	}
	if _, err := env.certs.Grant(ctx, uuid.New(), []domain.CertificationType{domain.CertificationNone}); !errors.Is(err, apperrors.ErrInvalidCertificationSet) {
		t.Fatalf("NONE is not grantable, got %v", err)
	}
}

func TestEnsureHoldsAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	dbc := testDBC()

	// NONE and empty sets bypass the check.
	if err := env.certs.EnsureHoldsAll(dbc, userID, nil); err != nil {
		t.Fatalf("empty set: %v", err)
	}
	if err := env.certs.EnsureHoldsAll(dbc, userID, []domain.CertificationType{domain.CertificationNone}); err != nil {
		t.Fatalf("NONE set: %v", err)
	}

	required := []domain.CertificationType{domain.CertificationGoogle}
	if err := env.certs.EnsureHoldsAll(dbc, userID, required); !errors.Is(err, apperrors.ErrCertificationNotHeld) {
		t.Fatalf("expected ErrCertificationNotHeld, got %v", err)
	}

	if _, err := env.certs.Grant(ctx, userID, required); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := env.certs.EnsureHoldsAll(dbc, userID, required); err != nil {
		t.Fatalf("after grant: %v", err)
	}
}

func TestPurgeExpiredCertifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	expired := testutil.SeedCertification(t, ctx, env.db, userID, domain.CertificationKakao)
	expired.ExpirationDate = time.Now().UTC().Add(-time.Hour)
	if err := env.db.Save(expired).Error; err != nil {
		t.Fatalf("age certification: %v", err)
	}
	testutil.SeedCertification(t, ctx, env.db, userID, domain.CertificationGoogle)

	purged, err := env.certs.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged < 1 {
		t.Fatalf("expected at least 1 purged row, got %d", purged)
	}

	remaining, err := env.certs.List(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].CertificationType != domain.CertificationGoogle {
		t.Fatalf("expected only the google certification to remain, got %v", remaining)
	}
}
