package app

import (
	"time"

	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	LockTimeout     time.Duration
	CertPurgePeriod time.Duration
	UseLocalLock    bool
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	lockTimeoutSeconds := utils.GetEnvAsInt("LOCK_TIMEOUT", 5, log)
	certPurgeHours := utils.GetEnvAsInt("CERT_PURGE_PERIOD_HOURS", 24, log)
	useLocalLock := utils.GetEnv("LOCK_BACKEND", "redis", log) == "local"
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		LockTimeout:     time.Duration(lockTimeoutSeconds) * time.Second,
		CertPurgePeriod: time.Duration(certPurgeHours) * time.Hour,
		UseLocalLock:    useLocalLock,
	}
}
