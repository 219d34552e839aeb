package app

import (
	"fmt"

	"gorm.io/gorm"

	redisclient "github.com/thesurvey/api/internal/clients/redis"
	"github.com/thesurvey/api/internal/platform/lock"
	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/services"
)

type Services struct {
	Points        services.PointHistoryService
	Certification services.CertificationService
	User          services.UserService
	Auth          services.AuthService
	Survey        services.SurveyService
	Answer        services.AnsweredQuestionService
	Locks         lock.Service
	Executor      *services.CommandExecutor
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	var locks lock.Service
	if cfg.UseLocalLock {
		locks = lock.NewLocalService()
	} else {
		rdb, err := redisclient.NewClient(log)
		if err != nil {
			return Services{}, fmt.Errorf("init redis: %w", err)
		}
		locks = lock.NewRedisService(rdb, log)
	}

	executor := services.NewCommandExecutor(log)
	points := services.NewPointHistoryService(reposet.PointHistory, log)
	certification := services.NewCertificationService(db, reposet.UserCertification, log)
	user := services.NewUserService(db, reposet.User, points, log)
	auth := services.NewAuthService(reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL, log)
	survey := services.NewSurveyService(
		db, locks, cfg.LockTimeout, executor,
		reposet.Survey, reposet.Question, reposet.AnsweredQuestion, reposet.Participation,
		points, certification, log,
	)
	answer := services.NewAnsweredQuestionService(
		db, locks, cfg.LockTimeout, executor,
		reposet.Survey, reposet.Question, reposet.AnsweredQuestion, reposet.Participation,
		points, certification, log,
	)

	return Services{
		Points:        points,
		Certification: certification,
		User:          user,
		Auth:          auth,
		Survey:        survey,
		Answer:        answer,
		Locks:         locks,
		Executor:      executor,
	}, nil
}
