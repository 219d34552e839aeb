package app

import (
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/platform/logger"
)

type Repos struct {
	User              repos.UserRepo
	PointHistory      repos.PointHistoryRepo
	Survey            repos.SurveyRepo
	Question          repos.QuestionRepo
	AnsweredQuestion  repos.AnsweredQuestionRepo
	Participation     repos.ParticipationRepo
	UserCertification repos.UserCertificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		PointHistory:      repos.NewPointHistoryRepo(db, log),
		Survey:            repos.NewSurveyRepo(db, log),
		Question:          repos.NewQuestionRepo(db, log),
		AnsweredQuestion:  repos.NewAnsweredQuestionRepo(db, log),
		Participation:     repos.NewParticipationRepo(db, log),
		UserCertification: repos.NewUserCertificationRepo(db, log),
	}
}
