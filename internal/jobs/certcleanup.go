package jobs

import (
	"context"
	"time"

	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/services"
)

// CertCleanup periodically purges expired user certifications.
type CertCleanup struct {
	certs  services.CertificationService
	log    *logger.Logger
	period time.Duration
}

func NewCertCleanup(certs services.CertificationService, period time.Duration, baseLog *logger.Logger) *CertCleanup {
	return &CertCleanup{
		certs:  certs,
		log:    baseLog.With("job", "CertCleanup"),
		period: period,
	}
}

// Start runs one purge immediately, then one per period until ctx is done.
func (j *CertCleanup) Start(ctx context.Context) {
	go func() {
		j.purge(ctx)
		ticker := time.NewTicker(j.period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.purge(ctx)
			}
		}
	}()
}

func (j *CertCleanup) purge(ctx context.Context) {
	if _, err := j.certs.PurgeExpired(ctx); err != nil {
		j.log.Error("certification purge failed", "error", err)
	}
}
